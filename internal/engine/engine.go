// Package engine combines the category scorers into a single prediction
// pipeline and aggregates their signals into one ranked result.
package engine

import (
	"context"

	"github.com/pairspend/pairspend/internal/model"
	"github.com/pairspend/pairspend/internal/scorer"
	"github.com/shopspring/decimal"
)

// Config carries the injected capabilities and tables. Zero values fall back
// to the built-in defaults.
type Config struct {
	Similarity       scorer.SimilarityFunc
	MerchantPatterns []scorer.MerchantPattern
	AmountBands      []scorer.AmountBand
}

// Engine runs the four scorers over a history snapshot. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	exact   *scorer.ExactMatcher
	fuzzy   *scorer.FuzzyMatcher
	keyword *scorer.KeywordMatcher
	generic *scorer.GenericMatcher
}

// New creates a prediction engine.
func New(cfg Config) *Engine {
	return &Engine{
		exact:   scorer.NewExactMatcher(),
		fuzzy:   scorer.NewFuzzyMatcher(cfg.Similarity),
		keyword: scorer.NewKeywordMatcher(),
		generic: scorer.NewGenericMatcher(cfg.MerchantPatterns, cfg.AmountBands),
	}
}

// PredictRequest is one categorization question: an already-resolved merchant
// name, the amount, the free-text description, and the couple's history
// snapshot plus category definitions.
type PredictRequest struct {
	Merchant    string
	Description string
	History     []model.Expense
	Categories  []model.Category
	Amount      decimal.Decimal
}

// PredictCategory scores the request with all four scorers and aggregates
// their signals. It always returns a result object; abstention and
// sub-threshold confidence are modeled as data, never as errors.
func (e *Engine) PredictCategory(_ context.Context, req PredictRequest) model.PredictionResult {
	var signals []model.CategorySignal

	if signal := e.exact.Score(req.Merchant, req.History); signal != nil {
		signals = append(signals, *signal)
	}
	if signal := e.fuzzy.Score(req.Merchant, req.History); signal != nil {
		signals = append(signals, *signal)
	}
	if signal := e.keyword.Score(req.Description, req.Categories); signal != nil {
		signals = append(signals, *signal)
	}
	signals = append(signals, e.generic.Score(req.Merchant, req.Amount))

	return Aggregate(signals)
}
