package helper

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/verdantiq/greenlens/model"
	"gopkg.in/yaml.v3"
)

// Config bundles all engine tunables. Values resolve in three layers:
// built-in defaults, then an optional YAML file, then environment
// variables. Thresholds and chunking are tunable without code changes.
type Config struct {
	Retrieval model.RetrievalConfig `yaml:"retrieval"`
	Sentiment model.SentimentConfig `yaml:"sentiment"`
	Models    model.ModelConfig     `yaml:"models"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Retrieval: model.DefaultRetrievalConfig(),
		Sentiment: model.DefaultSentimentConfig(),
		Models:    model.DefaultModelConfig(),
	}
}

// LoadConfig loads configuration from an optional YAML file and the
// environment. An empty path skips the file layer.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewError("read config file", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, NewError("parse config file", err)
		}
	}

	mergeConfigEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func mergeConfigEnv(config *Config) {
	if v, ok := envFloat("GREENLENS_RISK_THRESHOLD_LOW"); ok {
		config.Sentiment.Thresholds.Low = v
	}
	if v, ok := envFloat("GREENLENS_RISK_THRESHOLD_MEDIUM"); ok {
		config.Sentiment.Thresholds.Medium = v
	}
	if v, ok := envInt("GREENLENS_CHUNK_SIZE"); ok {
		config.Retrieval.ChunkSize = v
	}
	if v, ok := envInt("GREENLENS_CHUNK_OVERLAP"); ok {
		config.Retrieval.ChunkOverlap = v
	}
	if v, ok := envInt("GREENLENS_TOP_K"); ok {
		config.Retrieval.TopK = v
	}
	if v := os.Getenv("GREENLENS_SENTIMENT_MODEL"); v != "" {
		config.Models.SentimentModel = v
	}
	if v := os.Getenv("GREENLENS_EMBEDDING_MODEL"); v != "" {
		config.Models.EmbeddingModel = v
	}
	if v := os.Getenv("GREENLENS_RATIONALE_MODEL"); v != "" {
		config.Models.RationaleModel = v
	}
	if v := os.Getenv("GREENLENS_PARSE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Models.ParseTimeout = d
		}
	}
}

func validateConfig(config *Config) error {
	if config.Sentiment.Thresholds.Low < 0 || config.Sentiment.Thresholds.Low > 1 {
		return NewError("validate config", fmt.Errorf("low risk threshold must be in [0,1], got %v", config.Sentiment.Thresholds.Low))
	}
	if config.Sentiment.Thresholds.Medium < config.Sentiment.Thresholds.Low {
		return NewError("validate config", fmt.Errorf("medium risk threshold %v must not be below low threshold %v",
			config.Sentiment.Thresholds.Medium, config.Sentiment.Thresholds.Low))
	}
	if config.Retrieval.ChunkOverlap >= config.Retrieval.ChunkSize {
		return NewError("validate config", fmt.Errorf("chunk overlap %d must be smaller than chunk size %d",
			config.Retrieval.ChunkOverlap, config.Retrieval.ChunkSize))
	}
	return nil
}

func envFloat(key string) (float64, bool) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func envInt(key string) (int, bool) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i, true
		}
	}
	return 0, false
}
