package sentiment

import (
	"fmt"
	"strings"

	"github.com/verdantiq/greenlens/core/pipeline"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
)

// Analyzer scores financial text with a three-way sentiment classifier
type Analyzer struct {
	classify      pipeline.ClassifyFunc
	minTextLength int
}

// NewAnalyzer creates an analyzer over the given classifier. Texts with
// fewer than minTextLength trimmed characters are treated as neutral
// without invoking the classifier.
func NewAnalyzer(classify pipeline.ClassifyFunc, minTextLength int) *Analyzer {
	if minTextLength <= 0 {
		minTextLength = model.DefaultSentimentConfig().MinTextLength
	}
	return &Analyzer{
		classify:      classify,
		minTextLength: minTextLength,
	}
}

// AnalyzeText classifies a single text and maps it to a signed sentiment
// score: label multiplier (+1 positive, 0 neutral, -1 negative) times the
// classifier confidence.
func (a *Analyzer) AnalyzeText(text string) (*model.SentimentResult, error) {
	if len(strings.TrimSpace(text)) < a.minTextLength {
		return &model.SentimentResult{
			Score:      0.0,
			Label:      model.SentimentNeutral,
			Confidence: 0.0,
		}, nil
	}

	label, confidence, err := a.classify(text)
	if err != nil {
		return nil, helper.NewError("classify text", fmt.Errorf("%w: %v", model.ErrModelUnavailable, err))
	}

	return &model.SentimentResult{
		Score:      label.Multiplier() * confidence,
		Label:      label,
		Confidence: confidence,
	}, nil
}

// AnalyzeBatch classifies multiple texts independently
func (a *Analyzer) AnalyzeBatch(texts []string) ([]*model.SentimentResult, error) {
	results := make([]*model.SentimentResult, 0, len(texts))
	for _, text := range texts {
		result, err := a.AnalyzeText(text)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// AggregateSentiment returns the arithmetic mean of the signed sentiment
// scores of the given texts. An empty input yields exactly 0.0.
func (a *Analyzer) AggregateSentiment(texts []string) (float64, error) {
	if len(texts) == 0 {
		return 0.0, nil
	}

	results, err := a.AnalyzeBatch(texts)
	if err != nil {
		return 0.0, err
	}

	sum := 0.0
	for _, result := range results {
		sum += result.Score
	}
	return sum / float64(len(results)), nil
}
