package model

import "time"

// Chunk represents a bounded, overlapping slice of a source document,
// the unit of embedding and retrieval. ChunkIndex is the 0-based position
// within the document and is the chunk's permanent identity in the index;
// its ordering is the only locality signal.
type Chunk struct {
	ID         int64     `json:"id"`
	Ticker     string    `json:"ticker"`
	Content    string    `json:"content"`
	ChunkIndex int       `json:"chunk_index"`
	Length     int       `json:"length"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	// Result fields, populated by similarity search
	Distance float64 `json:"distance,omitempty"`
}
