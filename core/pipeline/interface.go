package pipeline

import (
	"github.com/verdantiq/greenlens/model"
)

// ChunkFunc is a function that splits text into ordered segments
type ChunkFunc func(text string) ([]Segment, error)

// EmbedFunc is a function that generates an embedding for text.
// The same function must be used at index time and query time for the
// stored vectors to remain comparable.
type EmbedFunc func(text string) ([]float32, error)

// ClassifyFunc classifies a text into a sentiment label with a confidence
type ClassifyFunc func(text string) (model.SentimentLabel, float64, error)

// Segment represents a chunk of text before embedding.
// ChunkIndex is the 0-based sequence position within the document.
type Segment struct {
	Content    string
	ChunkIndex int
	Length     int
	StartPos   int
}

// Pipeline combines chunking and embedding functions
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}

// Process splits text into chunks and embeds each one. The given metadata
// is attached to every chunk together with its index and length.
func (p *Pipeline) Process(text string, metadata model.Metadata) ([]*model.Chunk, error) {
	segments, err := p.Chunker(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]*model.Chunk, 0, len(segments))
	for _, segment := range segments {
		embedding, err := p.Embedder(segment.Content)
		if err != nil {
			return nil, err
		}

		meta := model.Metadata{}
		for k, v := range metadata {
			meta[k] = v
		}
		meta["chunk_id"] = segment.ChunkIndex
		meta["chunk_length"] = segment.Length

		chunks = append(chunks, &model.Chunk{
			Content:    segment.Content,
			ChunkIndex: segment.ChunkIndex,
			Length:     segment.Length,
			Embedding:  embedding,
			Metadata:   meta,
		})
	}

	return chunks, nil
}
