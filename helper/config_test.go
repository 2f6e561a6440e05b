package helper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 600, config.Retrieval.ChunkSize)
	assert.Equal(t, 120, config.Retrieval.ChunkOverlap)
	assert.Equal(t, 500, config.Retrieval.MinDocumentLength)
	assert.Equal(t, 5, config.Retrieval.TopK)
	assert.Equal(t, 384, config.Retrieval.EmbeddingDim)
	assert.Equal(t, 10, config.Sentiment.MinTextLength)
	assert.Equal(t, 0.3, config.Sentiment.Thresholds.Low)
	assert.Equal(t, 0.6, config.Sentiment.Thresholds.Medium)
	assert.Equal(t, "ProsusAI/finbert", config.Models.SentimentModel)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", config.Models.EmbeddingModel)
}

func TestLoadConfig(t *testing.T) {
	t.Run("Load config without file uses defaults", func(t *testing.T) {
		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("Load config from YAML file", func(t *testing.T) {
		configYAML := `
retrieval:
  chunk_size: 400
  chunk_overlap: 50
sentiment:
  risk_thresholds:
    low: 0.2
    medium: 0.5
models:
  rationale_model: gemini-1.5-flash
`
		path := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(path, []byte(configYAML), 0644)
		require.NoError(t, err)

		config, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 400, config.Retrieval.ChunkSize)
		assert.Equal(t, 50, config.Retrieval.ChunkOverlap)
		assert.Equal(t, 0.2, config.Sentiment.Thresholds.Low)
		assert.Equal(t, 0.5, config.Sentiment.Thresholds.Medium)
		assert.Equal(t, "gemini-1.5-flash", config.Models.RationaleModel)
		// Untouched values keep their defaults
		assert.Equal(t, 500, config.Retrieval.MinDocumentLength)
		assert.Equal(t, "ProsusAI/finbert", config.Models.SentimentModel)
	})

	t.Run("Load config fails on missing file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yaml")
		assert.Error(t, err)
	})

	t.Run("Environment overrides file and defaults", func(t *testing.T) {
		t.Setenv("GREENLENS_RISK_THRESHOLD_LOW", "0.25")
		t.Setenv("GREENLENS_RISK_THRESHOLD_MEDIUM", "0.55")
		t.Setenv("GREENLENS_CHUNK_SIZE", "800")
		t.Setenv("GREENLENS_TOP_K", "3")
		t.Setenv("GREENLENS_EMBEDDING_MODEL", "custom/embedder")
		t.Setenv("GREENLENS_PARSE_TIMEOUT", "30s")

		config, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, 0.25, config.Sentiment.Thresholds.Low)
		assert.Equal(t, 0.55, config.Sentiment.Thresholds.Medium)
		assert.Equal(t, 800, config.Retrieval.ChunkSize)
		assert.Equal(t, 3, config.Retrieval.TopK)
		assert.Equal(t, "custom/embedder", config.Models.EmbeddingModel)
		assert.Equal(t, 30*time.Second, config.Models.ParseTimeout)
	})

	t.Run("Invalid threshold ordering is rejected", func(t *testing.T) {
		t.Setenv("GREENLENS_RISK_THRESHOLD_LOW", "0.7")
		t.Setenv("GREENLENS_RISK_THRESHOLD_MEDIUM", "0.4")

		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("Threshold outside [0,1] is rejected", func(t *testing.T) {
		t.Setenv("GREENLENS_RISK_THRESHOLD_LOW", "1.5")
		t.Setenv("GREENLENS_RISK_THRESHOLD_MEDIUM", "1.6")

		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("Overlap not below chunk size is rejected", func(t *testing.T) {
		t.Setenv("GREENLENS_CHUNK_SIZE", "100")
		t.Setenv("GREENLENS_CHUNK_OVERLAP", "100")

		_, err := LoadConfig("")
		assert.Error(t, err)
	})
}
