package scorer

import (
	"strings"
	"unicode"

	"github.com/pairspend/pairspend/internal/model"
)

// Keyword confidence constants.
const (
	keywordBase    = 0.50
	keywordPerHit  = 0.10
	keywordCeiling = 0.80
)

// KeywordMatcher scores categories by keyword occurrence in the free-text
// description against each category's keyword set.
type KeywordMatcher struct{}

// NewKeywordMatcher creates a keyword scorer.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{}
}

// Score counts distinct keyword hits per category. The category with the most
// hits wins; ties break by declaration order in the configuration. Confidence
// is 0.50 for a single hit, +0.10 per additional distinct hit, ceiling 0.80.
// Returns nil when no category has any hit.
func (m *KeywordMatcher) Score(description string, categories []model.Category) *model.CategorySignal {
	lowered := strings.ToLower(description)
	tokens := tokenize(lowered)
	if len(tokens) == 0 {
		return nil
	}

	bestHits := 0
	bestCategory := ""
	for _, category := range categories {
		hits := countDistinctHits(lowered, tokens, category.Keywords)
		// Strict comparison keeps the first-declared category on ties.
		if hits > bestHits {
			bestHits = hits
			bestCategory = category.Key
		}
	}

	if bestHits == 0 {
		return nil
	}

	confidence := keywordBase + keywordPerHit*float64(bestHits-1)
	if confidence > keywordCeiling {
		confidence = keywordCeiling
	}

	return &model.CategorySignal{
		Category:   bestCategory,
		Confidence: confidence,
		Source:     model.SourceKeyword,
	}
}

// countDistinctHits counts how many of the category's keywords appear in the
// description. Single-word keywords must match a whole token; multi-word
// keywords match as substrings.
func countDistinctHits(lowered string, tokens map[string]struct{}, keywords []string) int {
	hits := 0
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.ContainsRune(keyword, ' ') {
			if strings.Contains(lowered, keyword) {
				hits++
			}
			continue
		}
		if _, ok := tokens[keyword]; ok {
			hits++
		}
	}
	return hits
}

// tokenize splits a lowered description on anything that is not a letter or
// digit and returns the distinct token set.
func tokenize(lowered string) map[string]struct{} {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		tokens[field] = struct{}{}
	}
	return tokens
}
