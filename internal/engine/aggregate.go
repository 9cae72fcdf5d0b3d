package engine

import (
	"github.com/pairspend/pairspend/internal/model"
)

// Aggregation constants.
const (
	// confidenceThreshold gates low-confidence predictions: below it the
	// category is withheld and offered as the first alternative instead.
	confidenceThreshold = 0.55
	// agreementBonus is added when two or more distinct sources agree.
	agreementBonus  = 0.10
	aggregateCap    = 0.99
	maxAlternatives = 3
)

// sourcePriority breaks confidence ties: exact > fuzzy > keyword > generic.
var sourcePriority = map[model.PredictionSource]int{
	model.SourceExact:   4,
	model.SourceFuzzy:   3,
	model.SourceKeyword: 2,
	model.SourceGeneric: 1,
}

// categoryGroup accumulates the signals that voted for one category.
type categoryGroup struct {
	category string
	source   model.PredictionSource
	combined float64
	sources  map[model.PredictionSource]struct{}
}

// Aggregate merges scorer signals by category and agreement into the final
// ranked prediction. Input signals are never mutated.
func Aggregate(signals []model.CategorySignal) model.PredictionResult {
	if len(signals) == 0 {
		// Defensive default; the generic matcher normally never abstains.
		return model.PredictionResult{
			Source:         model.SourceGeneric,
			BelowThreshold: true,
			Alternatives:   []model.Alternative{},
		}
	}

	groups := groupByCategory(signals)

	winner := groups[0]
	for _, group := range groups[1:] {
		if beats(group, winner) {
			winner = group
		}
	}

	var alternatives model.Alternatives
	for _, group := range groups {
		if group.category == winner.category {
			continue
		}
		alternatives = append(alternatives, model.Alternative{
			Category:   group.category,
			Confidence: clamp01(group.combined),
		})
	}

	result := model.PredictionResult{
		Category:     winner.category,
		Confidence:   clamp01(winner.combined),
		Source:       winner.source,
		Alternatives: alternatives.TopN(maxAlternatives),
	}

	if result.Confidence < confidenceThreshold {
		// Withhold the guess but keep it first in the ranked list so the UI
		// can still offer it for disambiguation.
		withheld := model.Alternative{Category: winner.category, Confidence: result.Confidence}
		result.Category = ""
		result.BelowThreshold = true
		result.Alternatives = append([]model.Alternative{withheld}, result.Alternatives...)
		if len(result.Alternatives) > maxAlternatives {
			result.Alternatives = result.Alternatives[:maxAlternatives]
		}
	}

	if result.Alternatives == nil {
		result.Alternatives = []model.Alternative{}
	}

	return result
}

// groupByCategory folds signals into per-category groups: combined confidence
// is the max among members plus the agreement bonus when distinct sources
// concur; the group's source is its strongest member's.
func groupByCategory(signals []model.CategorySignal) []*categoryGroup {
	index := make(map[string]*categoryGroup)
	var groups []*categoryGroup

	for _, signal := range signals {
		group, ok := index[signal.Category]
		if !ok {
			group = &categoryGroup{
				category: signal.Category,
				source:   signal.Source,
				combined: signal.Confidence,
				sources:  map[model.PredictionSource]struct{}{signal.Source: {}},
			}
			index[signal.Category] = group
			groups = append(groups, group)
			continue
		}

		group.sources[signal.Source] = struct{}{}
		if signal.Confidence > group.combined ||
			(signal.Confidence == group.combined && sourcePriority[signal.Source] > sourcePriority[group.source]) {
			group.combined = signal.Confidence
			group.source = signal.Source
		}
	}

	for _, group := range groups {
		if len(group.sources) >= 2 {
			group.combined += agreementBonus
		}
		if group.combined > aggregateCap {
			group.combined = aggregateCap
		}
	}

	return groups
}

func beats(a, b *categoryGroup) bool {
	if a.combined != b.combined {
		return a.combined > b.combined
	}
	return sourcePriority[a.source] > sourcePriority[b.source]
}

func clamp01(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
