package scorer

import (
	"testing"

	"github.com/pairspend/pairspend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenericMatcher_NeverAbstains(t *testing.T) {
	matcher := NewGenericMatcher(nil, nil)

	tests := []struct {
		name     string
		merchant string
		amount   decimal.Decimal
	}{
		{name: "unknown store", merchant: "Unknown Store", amount: decimal.NewFromFloat(50.00)},
		{name: "gibberish", merchant: "zzqq xv", amount: decimal.NewFromFloat(7.25)},
		{name: "large unknown", merchant: "Random Store XYZ 123", amount: decimal.NewFromFloat(999.99)},
		{name: "known merchant", merchant: "Starbucks #0457", amount: decimal.NewFromFloat(6.10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := matcher.Score(tt.merchant, tt.amount)
			assert.NotEmpty(t, signal.Category)
			assert.Equal(t, model.SourceGeneric, signal.Source)
			assert.GreaterOrEqual(t, signal.Confidence, 0.40)
			assert.LessOrEqual(t, signal.Confidence, 0.90)
		})
	}
}

func TestGenericMatcher_Score(t *testing.T) {
	matcher := NewGenericMatcher(nil, nil)

	tests := []struct {
		name           string
		merchant       string
		amount         decimal.Decimal
		wantCategory   string
		wantConfidence float64
	}{
		{
			name:     "known merchant with agreeing amount band",
			merchant: "Starbucks",
			amount:   decimal.NewFromFloat(6.10),
			// 0.75*0.85 merchant + 0.25*0.55 small-amount food band.
			wantCategory:   "food",
			wantConfidence: 0.775,
		},
		{
			name:     "known merchant with disagreeing amount band",
			merchant: "Netflix",
			amount:   decimal.NewFromFloat(15.99),
			// Amount band says shopping; it contributes only its floor.
			wantCategory:   "entertainment",
			wantConfidence: 0.75*0.90 + 0.25*0.40,
		},
		{
			name:     "unknown merchant falls back to the amount band",
			merchant: "Unknown Store",
			amount:   decimal.NewFromFloat(50.00),
			// 0.75*0.40 floor + 0.25*0.45 mid band.
			wantCategory:   "shopping",
			wantConfidence: 0.4125,
		},
		{
			name:           "large unknown amount biases toward home",
			merchant:       "Random Store XYZ 123",
			amount:         decimal.NewFromFloat(999.99),
			wantCategory:   "home",
			wantConfidence: 0.75*0.40 + 0.25*0.55,
		},
		{
			name:     "longer substring wins on equal confidence",
			merchant: "Uber Eats",
			amount:   decimal.NewFromFloat(24.00),
			// "uber eats" (food, 0.85) beats "uber" (transport, 0.70).
			wantCategory:   "food",
			wantConfidence: 0.75*0.85 + 0.25*0.40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := matcher.Score(tt.merchant, tt.amount)
			assert.Equal(t, tt.wantCategory, signal.Category)
			assert.Equal(t, model.SourceGeneric, signal.Source)
			assert.InDelta(t, tt.wantConfidence, signal.Confidence, 0.0001)
		})
	}
}

func TestGenericMatcher_UnrecognizedStaysBelowGate(t *testing.T) {
	matcher := NewGenericMatcher(nil, nil)

	// With no merchant recognition the blend cannot reach the 0.55 gate:
	// 0.75*0.40 + 0.25*max(band) = 0.4375 at most.
	for _, amount := range []float64{1.00, 14.99, 50.00, 250.00, 999.99} {
		signal := matcher.Score("Totally Unrecognizable Vendor", decimal.NewFromFloat(amount))
		assert.Less(t, signal.Confidence, 0.55, "amount %.2f", amount)
		assert.GreaterOrEqual(t, signal.Confidence, 0.40)
	}
}

func TestGenericMatcher_CustomTables(t *testing.T) {
	small := decimal.NewFromInt(10)
	matcher := NewGenericMatcher(
		[]MerchantPattern{{Substring: "bodega", Category: "groceries", Confidence: 0.80}},
		[]AmountBand{
			{Max: &small, Category: "groceries", Confidence: 0.50},
			{Min: &small, Category: "shopping", Confidence: 0.45},
		},
	)

	signal := matcher.Score("Corner Bodega", decimal.NewFromFloat(8.00))
	assert.Equal(t, "groceries", signal.Category)
	assert.InDelta(t, 0.75*0.80+0.25*0.50, signal.Confidence, 0.0001)
}
