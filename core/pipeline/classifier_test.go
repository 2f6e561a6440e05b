package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantiq/greenlens/model"
)

func TestNormalizeLabel(t *testing.T) {
	t.Run("Known labels are case-insensitive", func(t *testing.T) {
		assert.Equal(t, model.SentimentPositive, normalizeLabel("positive"))
		assert.Equal(t, model.SentimentPositive, normalizeLabel("Positive"))
		assert.Equal(t, model.SentimentPositive, normalizeLabel("POSITIVE"))
		assert.Equal(t, model.SentimentNegative, normalizeLabel("negative"))
		assert.Equal(t, model.SentimentNegative, normalizeLabel("Negative"))
		assert.Equal(t, model.SentimentNeutral, normalizeLabel("neutral"))
	})

	t.Run("Unknown labels fall back to neutral", func(t *testing.T) {
		assert.Equal(t, model.SentimentNeutral, normalizeLabel("mixed"))
		assert.Equal(t, model.SentimentNeutral, normalizeLabel(""))
		assert.Equal(t, model.SentimentNeutral, normalizeLabel("LABEL_1"))
	})
}
