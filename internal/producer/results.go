package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentireport/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// ResultsProducer publishes every analyzed document as one JSON message
// keyed by run id, so a run's results land on a single partition in order.
type ResultsProducer struct {
	Publisher Publisher
	Topic     string
}

func NewResultsProducer(publisher Publisher, topic string) *ResultsProducer {
	return &ResultsProducer{Publisher: publisher, Topic: topic}
}

func (p *ResultsProducer) Name() string { return "kafka" }

func (p *ResultsProducer) StoreResults(ctx context.Context, docs []models.AnalyzedDocument) error {
	for _, doc := range docs {
		jsonData, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("[ResultsProducer] marshal document %d: %w", doc.Index, err)
		}

		if err := p.Publisher.Publish(ctx, []byte(doc.RunID), jsonData); err != nil {
			slog.Error("[ResultsProducer] Failed to publish result",
				slog.String("run_id", doc.RunID),
				slog.Int("index", doc.Index),
				slog.String("error", err.Error()))
			return fmt.Errorf("[ResultsProducer] publish document %d: %w", doc.Index, err)
		}
	}

	slog.Info("[ResultsProducer] Published sentiment results",
		slog.String("topic", p.Topic),
		slog.Int("count", len(docs)))
	return nil
}
