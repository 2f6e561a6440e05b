package pipeline

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
)

// DefaultClassifier creates a financial sentiment classifier using the
// FinBERT model, which labels text as positive, negative or neutral
func DefaultClassifier() (ClassifyFunc, error) {
	return NewClassifier("ProsusAI/finbert")
}

// NewClassifier creates a classifier backed by a hugot text classification
// pipeline over the given model (downloaded if needed). The model must
// emit the three-way financial label set.
func NewClassifier(modelName string) (ClassifyFunc, error) {
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentiment-pipeline",
	}
	classificationPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create classification pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create classification pipeline: %w", err)
	}

	return func(text string) (model.SentimentLabel, float64, error) {
		result, err := classificationPipeline.RunPipeline([]string{text})
		if err != nil {
			return model.SentimentNeutral, 0, fmt.Errorf("failed to classify text: %w", err)
		}

		if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
			return model.SentimentNeutral, 0, fmt.Errorf("no classification generated")
		}

		// Pick the highest scoring class
		best := result.ClassificationOutputs[0][0]
		for _, c := range result.ClassificationOutputs[0] {
			if c.Score > best.Score {
				best = c
			}
		}

		return normalizeLabel(best.Label), float64(best.Score), nil
	}, nil
}

func normalizeLabel(raw string) model.SentimentLabel {
	switch strings.ToLower(raw) {
	case "positive":
		return model.SentimentPositive
	case "negative":
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
