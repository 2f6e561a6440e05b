package model

import "time"

// SentimentLabel is the three-way label set produced by the financial
// sentiment classifier.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Multiplier maps the label to its signed score multiplier
// (positive -> +1, neutral -> 0, negative -> -1).
func (l SentimentLabel) Multiplier() float64 {
	switch l {
	case SentimentPositive:
		return 1.0
	case SentimentNegative:
		return -1.0
	default:
		return 0.0
	}
}

// SentimentResult is the classification of a single text unit.
// Score is the signed sentiment in [-1, 1], Confidence in [0, 1].
type SentimentResult struct {
	Score      float64        `json:"score"`
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// RiskTier is the discrete greenwashing risk tier.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// RiskAssessment is the result of one sentiment delta analysis.
// RiskScore = max(0, Delta)/2, which lands in [0, 1] since Delta is in [-2, 2].
// Immutable after creation; persisted via the audits handler.
type RiskAssessment struct {
	ID                  int64           `json:"id,omitempty"`
	Ticker              string          `json:"ticker,omitempty"`
	DisclosureSentiment float64         `json:"disclosure_sentiment"`
	NewsSentiment       float64         `json:"news_sentiment"`
	Delta               float64         `json:"delta"`
	RiskScore           float64         `json:"risk_score"`
	RiskTier            RiskTier        `json:"risk_tier"`
	Rationale           string          `json:"rationale"`
	DisclosureDetail    SentimentResult `json:"disclosure_detail"`
	NewsCount           int             `json:"news_count"`
	CreatedAt           time.Time       `json:"created_at,omitempty"`
}

// RiskThresholds are the two ascending cut points of the tier step function.
type RiskThresholds struct {
	Low    float64 `yaml:"low" json:"low"`
	Medium float64 `yaml:"medium" json:"medium"`
}

// DefaultRiskThresholds returns the default tier cut points.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		Low:    0.3,
		Medium: 0.6,
	}
}

// TierFor maps a risk score to its tier. Pure, monotonic step function.
func (t RiskThresholds) TierFor(riskScore float64) RiskTier {
	switch {
	case riskScore < t.Low:
		return RiskLow
	case riskScore < t.Medium:
		return RiskMedium
	default:
		return RiskHigh
	}
}
