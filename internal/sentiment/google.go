package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spacesedan/sentireport/internal/clients"
	"github.com/spacesedan/sentireport/internal/models"
)

// GoogleAnalyzer scores each document with one Cloud Natural Language call.
// The service only returns a polarity score, which is spread over the three
// confidence buckets.
type GoogleAnalyzer struct {
	Client clients.LanguageService
}

func NewGoogleAnalyzer(client clients.LanguageService) *GoogleAnalyzer {
	return &GoogleAnalyzer{Client: client}
}

func (g *GoogleAnalyzer) Name() string { return "google" }

func (g *GoogleAnalyzer) AnalyzeSentiment(ctx context.Context, documents []string, language string) ([]models.DocumentSentiment, error) {
	results := make([]models.DocumentSentiment, 0, len(documents))
	for i, doc := range documents {
		resp, err := g.Client.AnalyzeSentiment(ctx, clients.SentimentRequest(doc, language))
		if err != nil {
			slog.Error("[Google] AnalyzeSentiment request failed",
				slog.Int("document", i),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: document %d: %w", clients.ErrDocumentFailed, i, err)
		}

		docScore := float64(resp.GetDocumentSentiment().GetScore())
		sentences := make([]models.SentenceSentiment, 0, len(resp.GetSentences()))
		for _, s := range resp.GetSentences() {
			score := float64(s.GetSentiment().GetScore())
			sentences = append(sentences, models.SentenceSentiment{
				Text:             s.GetText().GetContent(),
				Sentiment:        LabelFromScore(score),
				ConfidenceScores: ScoresFromPolarity(score),
			})
		}

		results = append(results, models.DocumentSentiment{
			ID:               strconv.Itoa(i),
			Sentiment:        LabelFromScore(docScore),
			ConfidenceScores: ScoresFromPolarity(docScore),
			Sentences:        sentences,
		})
	}
	return results, nil
}
