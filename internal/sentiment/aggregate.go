package sentiment

import (
	"log/slog"

	"github.com/spacesedan/sentireport/internal/models"
)

// LabelSentences attaches the dominant label of every sentence to each
// document.
func LabelSentences(docs []models.DocumentSentiment) []models.DocumentResult {
	results := make([]models.DocumentResult, 0, len(docs))
	for _, doc := range docs {
		labels := make([]models.Label, 0, len(doc.Sentences))
		for _, sentence := range doc.Sentences {
			labels = append(labels, DominantLabel(sentence.ConfidenceScores))
		}
		results = append(results, models.DocumentResult{
			DocumentSentiment: doc,
			SentenceLabels:    labels,
		})
	}
	return results
}

// Aggregate counts sentence labels across all documents and collects the
// document labels in order.
func Aggregate(results []models.DocumentResult) models.Aggregate {
	agg := models.Aggregate{
		DocumentLabels: make([]models.Label, 0, len(results)),
	}

	for _, r := range results {
		for _, label := range r.SentenceLabels {
			countLabel(&agg.SentenceCounts, label)
		}

		agg.DocumentLabels = append(agg.DocumentLabels, r.Sentiment)
		if !countLabel(&agg.DocumentCounts, r.Sentiment) {
			agg.Unbinned++
			slog.Warn("[Aggregator] Document label outside histogram bins",
				slog.String("id", r.ID),
				slog.String("label", string(r.Sentiment)))
		}
	}
	return agg
}

func countLabel(c *models.LabelCounts, label models.Label) bool {
	switch label {
	case models.LabelPositive:
		c.Positive++
	case models.LabelNeutral:
		c.Neutral++
	case models.LabelNegative:
		c.Negative++
	default:
		return false
	}
	return true
}
