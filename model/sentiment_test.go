package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentLabelMultiplier(t *testing.T) {
	t.Run("Positive label has multiplier +1", func(t *testing.T) {
		assert.Equal(t, 1.0, SentimentPositive.Multiplier())
	})

	t.Run("Negative label has multiplier -1", func(t *testing.T) {
		assert.Equal(t, -1.0, SentimentNegative.Multiplier())
	})

	t.Run("Neutral label has multiplier 0", func(t *testing.T) {
		assert.Equal(t, 0.0, SentimentNeutral.Multiplier())
	})

	t.Run("Unknown label has multiplier 0", func(t *testing.T) {
		assert.Equal(t, 0.0, SentimentLabel("mixed").Multiplier())
	})
}

func TestRiskThresholdsTierFor(t *testing.T) {
	thresholds := DefaultRiskThresholds()

	t.Run("Scores below low threshold are Low", func(t *testing.T) {
		assert.Equal(t, RiskLow, thresholds.TierFor(0.0))
		assert.Equal(t, RiskLow, thresholds.TierFor(0.29))
	})

	t.Run("Low threshold itself is Medium", func(t *testing.T) {
		// Boundaries belong to the upper tier
		assert.Equal(t, RiskMedium, thresholds.TierFor(0.3))
	})

	t.Run("Scores between thresholds are Medium", func(t *testing.T) {
		assert.Equal(t, RiskMedium, thresholds.TierFor(0.45))
		assert.Equal(t, RiskMedium, thresholds.TierFor(0.59))
	})

	t.Run("Medium threshold itself is High", func(t *testing.T) {
		assert.Equal(t, RiskHigh, thresholds.TierFor(0.6))
	})

	t.Run("Scores above medium threshold are High", func(t *testing.T) {
		assert.Equal(t, RiskHigh, thresholds.TierFor(0.8))
		assert.Equal(t, RiskHigh, thresholds.TierFor(1.0))
	})

	t.Run("Custom thresholds shift the boundaries", func(t *testing.T) {
		custom := RiskThresholds{Low: 0.1, Medium: 0.2}
		assert.Equal(t, RiskLow, custom.TierFor(0.05))
		assert.Equal(t, RiskMedium, custom.TierFor(0.15))
		assert.Equal(t, RiskHigh, custom.TierFor(0.25))
	})
}

func TestDefaultRiskThresholds(t *testing.T) {
	thresholds := DefaultRiskThresholds()
	assert.Equal(t, 0.3, thresholds.Low)
	assert.Equal(t, 0.6, thresholds.Medium)
}
