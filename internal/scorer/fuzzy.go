package scorer

import (
	"strings"

	"github.com/pairspend/pairspend/internal/model"
)

// Fuzzy-match constants. Below the qualifying threshold string overlap is
// treated as coincidental.
const (
	fuzzyThreshold     = 0.60
	fuzzyMinConfidence = 0.60
	fuzzyMaxConfidence = 0.85
)

// FuzzyMatcher scores categories using approximate string similarity against
// merchants seen in the couple's history.
type FuzzyMatcher struct {
	similarity SimilarityFunc
}

// NewFuzzyMatcher creates a fuzzy scorer. A nil similarity falls back to the
// default Levenshtein ratio.
func NewFuzzyMatcher(similarity SimilarityFunc) *FuzzyMatcher {
	if similarity == nil {
		similarity = LevenshteinSimilarity
	}
	return &FuzzyMatcher{similarity: similarity}
}

// Score compares the resolved merchant against every distinct historical
// merchant, keeps those with similarity >= 0.60, and scores the majority
// category of the closest one. Similarity maps linearly from [0.60,1.0] onto
// confidence [0.60,0.85]. Returns nil when nothing clears the gate.
func (m *FuzzyMatcher) Score(merchant string, history []model.Expense) *model.CategorySignal {
	target := strings.ToLower(strings.TrimSpace(merchant))
	if target == "" {
		return nil
	}

	// Group history by distinct normalized merchant.
	byMerchant := make(map[string][]model.Expense)
	for _, expense := range history {
		key := strings.ToLower(strings.TrimSpace(expense.Merchant))
		if key == "" || key == target {
			// Identical merchants belong to the exact scorer.
			continue
		}
		byMerchant[key] = append(byMerchant[key], expense)
	}

	bestSimilarity := 0.0
	bestMerchant := ""
	for candidate := range byMerchant {
		s := m.similarity(target, candidate)
		if s < fuzzyThreshold {
			continue
		}
		if s > bestSimilarity || (s == bestSimilarity && candidate < bestMerchant) {
			bestSimilarity = s
			bestMerchant = candidate
		}
	}

	if bestMerchant == "" {
		return nil
	}

	category, _, total := majorityCategory(byMerchant[bestMerchant])
	if total == 0 || category == "" {
		return nil
	}

	return &model.CategorySignal{
		Category:   category,
		Confidence: fuzzyConfidence(bestSimilarity),
		Source:     model.SourceFuzzy,
	}
}

// fuzzyConfidence maps similarity s in [0.60,1.0] linearly onto [0.60,0.85].
func fuzzyConfidence(s float64) float64 {
	confidence := fuzzyMinConfidence +
		(s-fuzzyThreshold)/(1.0-fuzzyThreshold)*(fuzzyMaxConfidence-fuzzyMinConfidence)
	if confidence > fuzzyMaxConfidence {
		confidence = fuzzyMaxConfidence
	}
	if confidence < fuzzyMinConfidence {
		confidence = fuzzyMinConfidence
	}
	return confidence
}
