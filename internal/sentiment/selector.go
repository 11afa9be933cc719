package sentiment

import "github.com/spacesedan/sentireport/internal/models"

// DominantLabel picks the label with the strictly highest confidence. Any
// tie, including positive and neutral tied above negative, falls through to
// negative.
func DominantLabel(s models.ConfidenceScores) models.Label {
	switch {
	case s.Positive > s.Neutral && s.Positive > s.Negative:
		return models.LabelPositive
	case s.Neutral > s.Positive && s.Neutral > s.Negative:
		return models.LabelNeutral
	default:
		return models.LabelNegative
	}
}
