package sentiment

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/sentireport/internal/models"
	"github.com/spacesedan/sentireport/internal/utils"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// SplitSentences splits on terminal punctuation, keeping the punctuation
// with its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	for _, s := range sentencePattern.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// VaderAnalyzer scores documents offline with the VADER lexicon.
type VaderAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderAnalyzer) Name() string { return "vader" }

func (v *VaderAnalyzer) AnalyzeSentiment(ctx context.Context, documents []string, language string) ([]models.DocumentSentiment, error) {
	if !strings.HasPrefix(strings.ToLower(language), "en") {
		slog.Warn("[VADER] Lexicon is English only, scores may be meaningless",
			slog.String("language", language))
	}

	results := make([]models.DocumentSentiment, 0, len(documents))
	for i, doc := range documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, v.analyzeDocument(strconv.Itoa(i), doc))
	}
	return results, nil
}

func (v *VaderAnalyzer) analyzeDocument(id, text string) models.DocumentSentiment {
	plainText := utils.ConvertMarkdownToText(text)
	docScore, docScores := v.score(plainText)

	sentences := make([]models.SentenceSentiment, 0)
	for _, s := range SplitSentences(plainText) {
		score, scores := v.score(s)
		sentences = append(sentences, models.SentenceSentiment{
			Text:             s,
			Sentiment:        LabelFromScore(score),
			ConfidenceScores: scores,
		})
	}

	return models.DocumentSentiment{
		ID:               id,
		Sentiment:        LabelFromScore(docScore),
		ConfidenceScores: docScores,
		Sentences:        sentences,
	}
}

// score returns the compound score and the positive/neutral/negative
// proportions, which VADER already normalizes to sum to one.
func (v *VaderAnalyzer) score(text string) (float64, models.ConfidenceScores) {
	s := v.analyzer.PolarityScores(text)
	return s.Compound, models.ConfidenceScores{
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
	}
}
