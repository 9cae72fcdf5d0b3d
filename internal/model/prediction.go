package model

import "sort"

// PredictionSource identifies which scorer produced a category signal.
type PredictionSource string

// Prediction source constants, in descending priority order.
const (
	SourceExact   PredictionSource = "exact"
	SourceFuzzy   PredictionSource = "fuzzy"
	SourceKeyword PredictionSource = "keyword"
	SourceGeneric PredictionSource = "generic"
)

// CategorySignal is a single scorer's opinion about a transaction's category.
// Scorers that abstain return no signal at all rather than a zero-confidence one.
type CategorySignal struct {
	Category   string
	Source     PredictionSource
	Confidence float64
}

// Alternative is a runner-up category offered alongside the chosen prediction.
type Alternative struct {
	Category   string
	Confidence float64
}

// PredictionResult is the aggregator's final answer. Category is empty when no
// signal cleared the confidence threshold; in that case the best guess still
// leads Alternatives so the UI can offer it for disambiguation.
type PredictionResult struct {
	Category       string
	Source         PredictionSource
	Alternatives   []Alternative
	Confidence     float64
	BelowThreshold bool
}

// Alternatives is a sortable list of runner-up categories.
type Alternatives []Alternative

// Sort orders alternatives by confidence descending, then by category key for
// a stable result when confidences tie.
func (a Alternatives) Sort() {
	sort.Slice(a, func(i, j int) bool {
		if a[i].Confidence != a[j].Confidence {
			return a[i].Confidence > a[j].Confidence
		}
		return a[i].Category < a[j].Category
	})
}

// TopN returns the N highest-confidence alternatives.
func (a Alternatives) TopN(n int) Alternatives {
	a.Sort()
	if n < 0 {
		n = 0
	}
	if n > len(a) {
		n = len(a)
	}
	result := make(Alternatives, n)
	copy(result, a[:n])
	return result
}
