package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/verdantiq/greenlens/helper"
)

// DefaultEmbedder creates an embedder using the all-MiniLM-L6-v2 sentence
// transformer model, which produces 384-dimensional embeddings
func DefaultEmbedder() (EmbedFunc, error) {
	return NewEmbedder("sentence-transformers/all-MiniLM-L6-v2")
}

// NewEmbedder creates an embedder backed by a hugot feature extraction
// pipeline over the given sentence transformer model (downloaded if needed)
func NewEmbedder(modelName string) (EmbedFunc, error) {
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(text string) ([]float32, error) {
		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return result.Embeddings[0], nil
	}, nil
}
