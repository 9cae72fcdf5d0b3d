package scorer

import (
	"strings"

	"github.com/pairspend/pairspend/internal/model"
	"github.com/shopspring/decimal"
)

// Generic fallback constants. The merchant table carries most of the weight;
// the amount heuristic nudges. Each signal is bounded to the outer range
// before blending.
const (
	genericFloor   = 0.40
	genericCeiling = 0.90
	merchantWeight = 0.75
	amountWeight   = 0.25
)

// MerchantPattern maps a merchant-name substring to a category.
type MerchantPattern struct {
	Substring  string
	Category   string
	Confidence float64
}

// AmountBand maps an amount range to a category bias. A nil bound is open.
type AmountBand struct {
	Min        *decimal.Decimal
	Max        *decimal.Decimal
	Category   string
	Confidence float64
}

// GenericMatcher is the history-independent fallback scorer. Its tables are
// immutable configuration injected at construction.
type GenericMatcher struct {
	merchants []MerchantPattern
	amounts   []AmountBand
}

// NewGenericMatcher creates a generic matcher. Nil tables fall back to the
// built-in defaults.
func NewGenericMatcher(merchants []MerchantPattern, amounts []AmountBand) *GenericMatcher {
	if merchants == nil {
		merchants = DefaultMerchantPatterns()
	}
	if amounts == nil {
		amounts = DefaultAmountBands()
	}
	return &GenericMatcher{merchants: merchants, amounts: amounts}
}

// Score blends the merchant-substring signal (weight 0.75) with the
// amount-band signal (weight 0.25). It never abstains: a genuinely
// unrecognized merchant gets a low-confidence amount-based guess, which
// distinguishes "no opinion" from "no data".
func (m *GenericMatcher) Score(merchant string, amount decimal.Decimal) model.CategorySignal {
	lowered := strings.ToLower(merchant)

	merchantCategory, merchantConfidence := m.matchMerchant(lowered)
	amountCategory, amountConfidence := m.matchAmount(amount)

	category := merchantCategory
	if category == "" {
		category = amountCategory
		// No merchant recognition: the merchant side contributes its floor.
		merchantConfidence = genericFloor
	} else if amountCategory != category {
		// The amount band disagrees; it contributes its floor instead of
		// pulling the prediction toward a different category.
		amountConfidence = genericFloor
	}

	confidence := merchantWeight*boundGeneric(merchantConfidence) +
		amountWeight*boundGeneric(amountConfidence)

	return model.CategorySignal{
		Category:   category,
		Confidence: boundGeneric(confidence),
		Source:     model.SourceGeneric,
	}
}

func (m *GenericMatcher) matchMerchant(lowered string) (string, float64) {
	category := ""
	confidence := 0.0
	matchLen := 0
	for _, pattern := range m.merchants {
		if !strings.Contains(lowered, pattern.Substring) {
			continue
		}
		// Prefer higher confidence, then the more specific (longer) substring.
		if pattern.Confidence > confidence ||
			(pattern.Confidence == confidence && len(pattern.Substring) > matchLen) {
			category = pattern.Category
			confidence = pattern.Confidence
			matchLen = len(pattern.Substring)
		}
	}
	return category, confidence
}

func (m *GenericMatcher) matchAmount(amount decimal.Decimal) (string, float64) {
	for _, band := range m.amounts {
		if band.Min != nil && amount.LessThan(*band.Min) {
			continue
		}
		if band.Max != nil && amount.GreaterThanOrEqual(*band.Max) {
			continue
		}
		return band.Category, band.Confidence
	}
	return "", genericFloor
}

func boundGeneric(confidence float64) float64 {
	if confidence < genericFloor {
		return genericFloor
	}
	if confidence > genericCeiling {
		return genericCeiling
	}
	return confidence
}
