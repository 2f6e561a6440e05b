package sentiment

import (
	"context"
	"log/slog"
	"math"

	"github.com/verdantiq/greenlens/model"
)

// DeltaEngine contrasts the sentiment of a company's own disclosures
// against independent news coverage. A positive delta (disclosures rosier
// than coverage) is the greenwashing signal; negative deltas clip to zero
// risk since the goal is detecting overclaiming, not underclaiming.
type DeltaEngine struct {
	analyzer   *Analyzer
	thresholds model.RiskThresholds
	rationale  RationaleGenerator
	log        *slog.Logger
}

// NewDeltaEngine creates a delta engine with the given tier thresholds.
// The rationale generator defaults to the deterministic template.
func NewDeltaEngine(analyzer *Analyzer, thresholds model.RiskThresholds, logger *slog.Logger) *DeltaEngine {
	return &DeltaEngine{
		analyzer:   analyzer,
		thresholds: thresholds,
		rationale:  TemplateRationale{},
		log:        logger,
	}
}

// SetRationaleGenerator replaces the rationale generator, typically with a
// generative model. Generation failures still degrade to the template.
func (e *DeltaEngine) SetRationaleGenerator(generator RationaleGenerator) {
	if generator != nil {
		e.rationale = generator
	}
}

// Score computes the greenwashing risk of one company from its disclosure
// text and recent news headlines. Pure function of its inputs plus the
// loaded classifier's fixed weights; persistence is the caller's concern.
func (e *DeltaEngine) Score(ctx context.Context, disclosureText string, headlines []string) (*model.RiskAssessment, error) {
	disclosure, err := e.analyzer.AnalyzeText(disclosureText)
	if err != nil {
		return nil, err
	}

	newsSentiment, err := e.analyzer.AggregateSentiment(headlines)
	if err != nil {
		return nil, err
	}

	delta := disclosure.Score - newsSentiment
	riskScore := math.Max(0, delta) / 2

	assessment := &model.RiskAssessment{
		DisclosureSentiment: disclosure.Score,
		NewsSentiment:       newsSentiment,
		Delta:               delta,
		RiskScore:           riskScore,
		RiskTier:            e.thresholds.TierFor(riskScore),
		DisclosureDetail:    *disclosure,
		NewsCount:           len(headlines),
	}
	assessment.Rationale = e.generateRationale(ctx, assessment, disclosureText, headlines)

	e.log.Info("Scored sentiment delta",
		slog.Float64("disclosure_sentiment", assessment.DisclosureSentiment),
		slog.Float64("news_sentiment", assessment.NewsSentiment),
		slog.Float64("risk_score", assessment.RiskScore),
		slog.String("risk_tier", string(assessment.RiskTier)),
	)

	return assessment, nil
}

// generateRationale runs the configured generator and degrades to the
// deterministic template on any failure. The rationale is a best-effort
// enhancement; the numeric score is the load-bearing output.
func (e *DeltaEngine) generateRationale(ctx context.Context, assessment *model.RiskAssessment, disclosureText string, headlines []string) string {
	rationale, err := e.rationale.Generate(ctx, assessment, disclosureText, headlines)
	if err != nil || rationale == "" {
		if err != nil {
			e.log.Warn("Rationale generation failed, using template", slog.Any("error", err))
		}
		rationale, _ = TemplateRationale{}.Generate(ctx, assessment, disclosureText, headlines)
	}
	return rationale
}
