package sentiment

import (
	"testing"

	"github.com/spacesedan/sentireport/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDominantLabel(t *testing.T) {
	tests := []struct {
		name   string
		scores models.ConfidenceScores
		want   models.Label
	}{
		{name: "positive max", scores: models.ConfidenceScores{Positive: 0.7, Neutral: 0.2, Negative: 0.1}, want: models.LabelPositive},
		{name: "neutral max", scores: models.ConfidenceScores{Positive: 0.1, Neutral: 0.8, Negative: 0.1}, want: models.LabelNeutral},
		{name: "negative max", scores: models.ConfidenceScores{Positive: 0.1, Neutral: 0.2, Negative: 0.7}, want: models.LabelNegative},
		{name: "positive ties neutral above negative", scores: models.ConfidenceScores{Positive: 0.45, Neutral: 0.45, Negative: 0.1}, want: models.LabelNegative},
		{name: "positive ties negative", scores: models.ConfidenceScores{Positive: 0.4, Neutral: 0.2, Negative: 0.4}, want: models.LabelNegative},
		{name: "neutral ties negative", scores: models.ConfidenceScores{Positive: 0.2, Neutral: 0.4, Negative: 0.4}, want: models.LabelNegative},
		{name: "three way tie", scores: models.ConfidenceScores{Positive: 1.0 / 3, Neutral: 1.0 / 3, Negative: 1.0 / 3}, want: models.LabelNegative},
		{name: "all zero", scores: models.ConfidenceScores{}, want: models.LabelNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DominantLabel(tt.scores))
		})
	}
}

func TestLabelFromScore(t *testing.T) {
	assert.Equal(t, models.LabelPositive, LabelFromScore(0.2))
	assert.Equal(t, models.LabelPositive, LabelFromScore(0.9))
	assert.Equal(t, models.LabelNeutral, LabelFromScore(0.19))
	assert.Equal(t, models.LabelNeutral, LabelFromScore(-0.19))
	assert.Equal(t, models.LabelNegative, LabelFromScore(-0.2))
}

func TestScoresFromPolarity(t *testing.T) {
	s := ScoresFromPolarity(0.6)
	assert.InDelta(t, 0.6, s.Positive, 1e-9)
	assert.InDelta(t, 0.4, s.Neutral, 1e-9)
	assert.InDelta(t, 0.0, s.Negative, 1e-9)

	s = ScoresFromPolarity(-0.25)
	assert.InDelta(t, 0.0, s.Positive, 1e-9)
	assert.InDelta(t, 0.75, s.Neutral, 1e-9)
	assert.InDelta(t, 0.25, s.Negative, 1e-9)

	assert.Equal(t, models.LabelNegative, DominantLabel(ScoresFromPolarity(-0.8)))
}
