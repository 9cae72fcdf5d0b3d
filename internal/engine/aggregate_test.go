package engine

import (
	"testing"

	"github.com/pairspend/pairspend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_NoSignals(t *testing.T) {
	result := Aggregate(nil)

	assert.Empty(t, result.Category)
	assert.Zero(t, result.Confidence)
	assert.True(t, result.BelowThreshold)
	assert.Equal(t, model.SourceGeneric, result.Source)
	assert.Empty(t, result.Alternatives)
}

func TestAggregate_SingleSignal(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "food", Confidence: 0.92, Source: model.SourceExact},
	})

	assert.Equal(t, "food", result.Category)
	assert.InDelta(t, 0.92, result.Confidence, 0.0001)
	assert.Equal(t, model.SourceExact, result.Source)
	assert.False(t, result.BelowThreshold)
	assert.Empty(t, result.Alternatives)
}

func TestAggregate_AgreementBonus(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "food", Confidence: 0.70, Source: model.SourceKeyword},
		{Category: "food", Confidence: 0.65, Source: model.SourceGeneric},
	})

	assert.Equal(t, "food", result.Category)
	// max(0.70, 0.65) + 0.10 agreement bonus.
	assert.InDelta(t, 0.80, result.Confidence, 0.0001)
	assert.Equal(t, model.SourceKeyword, result.Source)
}

func TestAggregate_AgreementBonusRequiresDistinctSources(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "food", Confidence: 0.70, Source: model.SourceKeyword},
		{Category: "food", Confidence: 0.60, Source: model.SourceKeyword},
	})

	assert.InDelta(t, 0.70, result.Confidence, 0.0001)
}

func TestAggregate_BonusCappedAtNinetyNine(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "food", Confidence: 0.98, Source: model.SourceExact},
		{Category: "food", Confidence: 0.70, Source: model.SourceGeneric},
	})

	assert.InDelta(t, 0.99, result.Confidence, 0.0001)
}

func TestAggregate_TieBreaksBySourcePriority(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "shopping", Confidence: 0.70, Source: model.SourceKeyword},
		{Category: "food", Confidence: 0.70, Source: model.SourceFuzzy},
	})

	assert.Equal(t, "food", result.Category)
	assert.Equal(t, model.SourceFuzzy, result.Source)
}

func TestAggregate_AlternativesExcludeWinnerAndAreSorted(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "food", Confidence: 0.92, Source: model.SourceExact},
		{Category: "groceries", Confidence: 0.75, Source: model.SourceFuzzy},
		{Category: "shopping", Confidence: 0.60, Source: model.SourceKeyword},
		{Category: "home", Confidence: 0.45, Source: model.SourceGeneric},
	})

	assert.Equal(t, "food", result.Category)
	require.Len(t, result.Alternatives, 3)

	for i, alt := range result.Alternatives {
		assert.NotEqual(t, result.Category, alt.Category)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Alternatives[i-1].Confidence, alt.Confidence)
		}
	}
	assert.Equal(t, "groceries", result.Alternatives[0].Category)
}

func TestAggregate_BelowThresholdKeepsWinnerAsFirstAlternative(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "home", Confidence: 0.44, Source: model.SourceGeneric},
	})

	assert.Empty(t, result.Category)
	assert.True(t, result.BelowThreshold)
	require.NotEmpty(t, result.Alternatives)
	assert.Equal(t, "home", result.Alternatives[0].Category)
	assert.InDelta(t, 0.44, result.Alternatives[0].Confidence, 0.0001)
}

func TestAggregate_BelowThresholdKeepsRankedRunnersUp(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "home", Confidence: 0.50, Source: model.SourceGeneric},
		{Category: "food", Confidence: 0.48, Source: model.SourceKeyword},
	})

	assert.Empty(t, result.Category)
	assert.True(t, result.BelowThreshold)
	require.Len(t, result.Alternatives, 2)
	assert.Equal(t, "home", result.Alternatives[0].Category)
	assert.Equal(t, "food", result.Alternatives[1].Category)
}

func TestAggregate_ConfidencesClamped(t *testing.T) {
	result := Aggregate([]model.CategorySignal{
		{Category: "food", Confidence: 1.7, Source: model.SourceExact},
		{Category: "home", Confidence: -0.2, Source: model.SourceGeneric},
	})

	assert.LessOrEqual(t, result.Confidence, 1.0)
	for _, alt := range result.Alternatives {
		assert.GreaterOrEqual(t, alt.Confidence, 0.0)
		assert.LessOrEqual(t, alt.Confidence, 1.0)
	}
}

func TestAggregate_InputSignalsNotMutated(t *testing.T) {
	signals := []model.CategorySignal{
		{Category: "food", Confidence: 0.70, Source: model.SourceKeyword},
		{Category: "food", Confidence: 0.65, Source: model.SourceGeneric},
	}

	_ = Aggregate(signals)

	assert.InDelta(t, 0.70, signals[0].Confidence, 0.0001)
	assert.InDelta(t, 0.65, signals[1].Confidence, 0.0001)
}
