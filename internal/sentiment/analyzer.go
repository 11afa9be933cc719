package sentiment

import (
	"context"

	"github.com/spacesedan/sentireport/internal/models"
)

// Analyzer scores a batch of documents. Implementations return exactly one
// result per input document, in input order, with ID set to the document's
// index.
type Analyzer interface {
	Name() string
	AnalyzeSentiment(ctx context.Context, documents []string, language string) ([]models.DocumentSentiment, error)
}

const (
	POSITIVE_THRESHOLD = 0.20
	NEGATIVE_THRESHOLD = -0.20
)

// LabelFromScore maps a polarity score in [-1, 1] to a label.
func LabelFromScore(score float64) models.Label {
	switch {
	case score >= POSITIVE_THRESHOLD:
		return models.LabelPositive
	case score <= NEGATIVE_THRESHOLD:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// ScoresFromPolarity spreads a polarity score in [-1, 1] over the three
// confidence buckets.
func ScoresFromPolarity(score float64) models.ConfidenceScores {
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	abs := score
	if abs < 0 {
		abs = -abs
	}
	return models.ConfidenceScores{
		Positive: max(score, 0),
		Neutral:  1 - abs,
		Negative: max(-score, 0),
	}
}
