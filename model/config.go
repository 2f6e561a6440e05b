package model

import "time"

// RetrievalConfig holds the tunables of the retrieval engine.
type RetrievalConfig struct {
	// Sliding window chunking
	ChunkSize    int `yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`

	// Documents shorter than this are rejected at indexing time;
	// too short to produce meaningful retrieval chunks.
	MinDocumentLength int `yaml:"min_document_length" json:"min_document_length"`

	// Default number of chunks retrieved per query
	TopK int `yaml:"top_k" json:"top_k"`

	// Dimension of the embedding vectors
	EmbeddingDim int `yaml:"embedding_dim" json:"embedding_dim"`
}

// DefaultRetrievalConfig returns the default retrieval tunables.
// Smaller chunks mean less noise per retrieved unit.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		ChunkSize:         600,
		ChunkOverlap:      120,
		MinDocumentLength: 500,
		TopK:              5,
		EmbeddingDim:      384,
	}
}

// SentimentConfig holds the tunables of the sentiment delta engine.
type SentimentConfig struct {
	// Texts with fewer trimmed characters are treated as neutral
	// without invoking the classifier.
	MinTextLength int `yaml:"min_text_length" json:"min_text_length"`

	Thresholds RiskThresholds `yaml:"risk_thresholds" json:"risk_thresholds"`
}

// DefaultSentimentConfig returns the default sentiment tunables.
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		MinTextLength: 10,
		Thresholds:    DefaultRiskThresholds(),
	}
}

// ModelConfig names the external models and the extraction bound.
type ModelConfig struct {
	SentimentModel string        `yaml:"sentiment_model" json:"sentiment_model"`
	EmbeddingModel string        `yaml:"embedding_model" json:"embedding_model"`
	RationaleModel string        `yaml:"rationale_model" json:"rationale_model"`
	ParseTimeout   time.Duration `yaml:"parse_timeout" json:"parse_timeout"`
}

// DefaultModelConfig returns the default model names.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		SentimentModel: "ProsusAI/finbert",
		EmbeddingModel: "sentence-transformers/all-MiniLM-L6-v2",
		RationaleModel: "gemini-2.0-flash",
		ParseTimeout:   2 * time.Minute,
	}
}
