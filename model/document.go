package model

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Document represents an indexed source document for a ticker.
// Content is only carried through processing and is not stored.
type Document struct {
	ID         int64     `json:"id"`
	RID        uuid.UUID `json:"rid"`
	Ticker     string    `json:"ticker"`
	Title      string    `json:"title"`
	Source     string    `json:"source,omitempty"`
	Content    string    `json:"content,omitempty" db:"-"`
	ChunkCount int       `json:"chunk_count"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewDocumentFromFile reads a file and creates a Document with the file content.
// The title defaults to the filename without extension, source to the file path.
func NewDocumentFromFile(ticker string, filePath string, metadata Metadata) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(filePath)
	title := filename[:len(filename)-len(filepath.Ext(filename))]
	if title == "" {
		title = filename
	}

	return &Document{
		Ticker:   ticker,
		Title:    title,
		Source:   filePath,
		Content:  string(content),
		Metadata: metadata,
	}, nil
}
