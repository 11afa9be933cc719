package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spacesedan/sentireport/internal/clients"
	"github.com/spacesedan/sentireport/internal/models"
	"github.com/spacesedan/sentireport/internal/utils"
)

type TextAnalyticsService interface {
	AnalyzeSentiment(ctx context.Context, input models.TextAnalyticsRequest) (models.TextAnalyticsResponse, error)
}

// AzureAnalyzer sends documents to the Text Analytics sentiment endpoint in
// batches of the service's maximum size.
type AzureAnalyzer struct {
	Client TextAnalyticsService
}

func NewAzureAnalyzer(client TextAnalyticsService) *AzureAnalyzer {
	return &AzureAnalyzer{Client: client}
}

func (a *AzureAnalyzer) Name() string { return "azure" }

func (a *AzureAnalyzer) AnalyzeSentiment(ctx context.Context, documents []string, language string) ([]models.DocumentSentiment, error) {
	results := make([]models.DocumentSentiment, len(documents))
	if len(documents) == 0 {
		return results, nil
	}

	inputs := make([]models.TextAnalyticsInput, 0, len(documents))
	for i, doc := range documents {
		inputs = append(inputs, models.TextAnalyticsInput{
			ID:       strconv.Itoa(i),
			Language: language,
			Text:     doc,
		})
	}

	filled := make([]bool, len(documents))
	batches := utils.Chunk(inputs, clients.TEXT_ANALYTICS_BATCH_SIZE)
	for n, batch := range batches {
		slog.Debug("[Azure] Sending batch",
			slog.Int("batch", n+1),
			slog.Int("of", len(batches)),
			slog.Int("documents", len(batch)))

		resp, err := a.Client.AnalyzeSentiment(ctx, models.TextAnalyticsRequest{Documents: batch})
		if err != nil {
			return nil, err
		}

		if len(resp.Errors) > 0 {
			docErr := resp.Errors[0]
			slog.Error("[Azure] Service rejected document",
				slog.String("id", docErr.ID),
				slog.String("code", docErr.Error.Code),
				slog.String("error", docErr.Error.Message))
			return nil, fmt.Errorf("%w: document %s: %s: %s",
				clients.ErrDocumentFailed, docErr.ID, docErr.Error.Code, docErr.Error.Message)
		}

		for _, doc := range resp.Documents {
			idx, err := strconv.Atoi(doc.ID)
			if err != nil || idx < 0 || idx >= len(documents) {
				return nil, fmt.Errorf("unexpected document id %q in response", doc.ID)
			}
			for _, w := range doc.Warnings {
				slog.Warn("[Azure] Document warning",
					slog.String("id", doc.ID),
					slog.String("code", w.Code),
					slog.String("message", w.Message))
			}
			results[idx] = fromTextAnalytics(doc)
			filled[idx] = true
		}
	}

	for i, ok := range filled {
		if !ok {
			return nil, fmt.Errorf("%w: document %d missing from response", clients.ErrDocumentFailed, i)
		}
	}
	return results, nil
}

func fromTextAnalytics(doc models.TextAnalyticsDocument) models.DocumentSentiment {
	sentences := make([]models.SentenceSentiment, 0, len(doc.Sentences))
	for _, s := range doc.Sentences {
		sentences = append(sentences, models.SentenceSentiment{
			Text:             s.Text,
			Sentiment:        models.Label(s.Sentiment),
			ConfidenceScores: s.ConfidenceScores,
		})
	}
	return models.DocumentSentiment{
		ID:               doc.ID,
		Sentiment:        models.Label(doc.Sentiment),
		ConfidenceScores: doc.ConfidenceScores,
		Sentences:        sentences,
	}
}
