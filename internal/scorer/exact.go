package scorer

import (
	"strings"

	"github.com/pairspend/pairspend/internal/model"
)

// Exact-match confidence constants.
const (
	exactBase     = 0.90
	exactMaxBonus = 0.09
	exactCap      = 0.99
	// exactVolumeSaturation is the match count at which additional history
	// stops increasing confidence.
	exactVolumeSaturation = 10
)

// ExactMatcher scores categories using literal merchant matches in the
// couple's own history.
type ExactMatcher struct{}

// NewExactMatcher creates an exact-match scorer.
func NewExactMatcher() *ExactMatcher {
	return &ExactMatcher{}
}

// Score finds history entries whose merchant equals the resolved name
// (case-insensitive) and scores their majority category. Confidence starts at
// 0.90 and rises toward 0.99 with both volume and agreement; a bare majority
// stays near the floor. Returns nil when no history matches.
func (m *ExactMatcher) Score(merchant string, history []model.Expense) *model.CategorySignal {
	target := strings.ToLower(strings.TrimSpace(merchant))
	if target == "" {
		return nil
	}

	var matches []model.Expense
	for _, expense := range history {
		if strings.ToLower(strings.TrimSpace(expense.Merchant)) == target {
			matches = append(matches, expense)
		}
	}

	category, majority, total := majorityCategory(matches)
	if total == 0 || category == "" {
		return nil
	}

	return &model.CategorySignal{
		Category:   category,
		Confidence: exactConfidence(majority, total),
		Source:     model.SourceExact,
	}
}

// exactConfidence blends agreement and volume into the bonus above the base.
// Agreement rescales the majority ratio from [0.5,1.0] onto [0,1]; volume
// saturates at ten samples.
func exactConfidence(majority, total int) float64 {
	agreement := (float64(majority)/float64(total) - 0.5) / 0.5
	if agreement < 0 {
		agreement = 0
	}
	if agreement > 1 {
		agreement = 1
	}

	volume := float64(total) / exactVolumeSaturation
	if volume > 1 {
		volume = 1
	}

	confidence := exactBase + exactMaxBonus*agreement*volume
	if confidence > exactCap {
		confidence = exactCap
	}
	return confidence
}

// majorityCategory returns the most frequent category among the given
// expenses, its count, and the total number of categorized entries. Ties
// break alphabetically for determinism.
func majorityCategory(expenses []model.Expense) (category string, majority, total int) {
	counts := make(map[string]int)
	for _, expense := range expenses {
		if expense.Category == "" {
			continue
		}
		counts[expense.Category]++
		total++
	}

	for candidate, count := range counts {
		if count > majority || (count == majority && candidate < category) {
			category = candidate
			majority = count
		}
	}

	return category, majority, total
}
