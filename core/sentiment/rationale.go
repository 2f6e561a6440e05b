package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/verdantiq/greenlens/model"
	"google.golang.org/genai"
)

// RationaleGenerator produces a human-readable explanation of why a risk
// tier was assigned. Implementations must be safe for concurrent use.
type RationaleGenerator interface {
	Generate(ctx context.Context, assessment *model.RiskAssessment, disclosureText string, headlines []string) (string, error)
}

// TemplateRationale is the deterministic fallback generator. It carries
// the same structural content as the generative path: risk tier, driving
// factor and implication.
type TemplateRationale struct{}

// Generate builds the template rationale for the assessment's tier
func (TemplateRationale) Generate(_ context.Context, assessment *model.RiskAssessment, _ string, _ []string) (string, error) {
	var reason, implication string

	switch assessment.RiskTier {
	case model.RiskHigh:
		reason = "significant discrepancy between positive corporate disclosures and negative media coverage"
		implication = "This suggests potential greenwashing or unrealized commitments"
	case model.RiskMedium:
		reason = "moderate gap between stated ESG goals and public perception"
		implication = "Further investigation into actual performance is recommended"
	default:
		reason = "alignment between corporate disclosures and media sentiment"
		implication = "The company appears to be following through on stated commitments"
	}

	tier := strings.ToLower(string(assessment.RiskTier))
	return fmt.Sprintf("Risk is %s due to %s. %s.", tier, reason, implication), nil
}

// GeminiRationale generates a two-sentence executive summary with a Gemini
// model. Callers fall back to TemplateRationale on any failure.
type GeminiRationale struct {
	client    *genai.Client
	modelName string
}

// NewGeminiRationale creates a generative rationale generator
func NewGeminiRationale(ctx context.Context, apiKey string, modelName string) (*GeminiRationale, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required for generative rationales")
	}
	if modelName == "" {
		modelName = model.DefaultModelConfig().RationaleModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	return &GeminiRationale{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate asks the model for a two-sentence explanation of the assessment
func (g *GeminiRationale) Generate(ctx context.Context, assessment *model.RiskAssessment, disclosureText string, headlines []string) (string, error) {
	prompt := buildRationalePrompt(assessment, disclosureText, headlines)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
	}
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("rationale generation failed: %w", err)
	}

	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no rationale generated")
	}

	return trimToSentences(strings.TrimSpace(response.String()), 2), nil
}

func buildRationalePrompt(assessment *model.RiskAssessment, disclosureText string, headlines []string) string {
	excerpt := disclosureText
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}
	samples := headlines
	if len(samples) > 5 {
		samples = samples[:5]
	}

	tier := strings.ToLower(string(assessment.RiskTier))
	return fmt.Sprintf(`Risk Analysis Summary:
- Greenwashing Risk: %s (%.2f)
- Disclosure Sentiment: %.2f
- News Coverage Sentiment: %.2f

Company Claims: %s

Recent News Headlines:
%s

Write a 2-sentence executive summary explaining why this company has %s greenwashing risk.`,
		assessment.RiskTier, assessment.RiskScore,
		assessment.DisclosureSentiment, assessment.NewsSentiment,
		excerpt, strings.Join(samples, " "), tier)
}

// trimToSentences keeps at most n sentences of text
func trimToSentences(text string, n int) string {
	sentences := strings.Split(text, ". ")
	if len(sentences) <= n {
		return text
	}
	return strings.Join(sentences[:n], ". ") + "."
}
