package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spacesedan/sentireport/internal/models"
)

const DEFAULT_RESULTS_INDEX = "sentiment-results"

type DocumentIndexer interface {
	IndexDocument(ctx context.Context, index, id string, body []byte) error
}

// ResultIndex indexes every analyzed document as <run id>-<index> so a
// rerun of the same publication overwrites instead of duplicating.
type ResultIndex struct {
	Client DocumentIndexer
	Index  string
}

func NewResultIndex(client DocumentIndexer, index string) *ResultIndex {
	if index == "" {
		index = DEFAULT_RESULTS_INDEX
	}
	return &ResultIndex{Client: client, Index: index}
}

func (r *ResultIndex) Name() string { return "opensearch" }

func DocumentID(doc models.AnalyzedDocument) string {
	return doc.RunID + "-" + strconv.Itoa(doc.Index)
}

func (r *ResultIndex) StoreResults(ctx context.Context, docs []models.AnalyzedDocument) error {
	for _, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			slog.Error("[OpenSearch] failed to marshal sentiment result",
				slog.String("run_id", doc.RunID),
				slog.Int("index", doc.Index),
				slog.String("error", err.Error()))
			return err
		}

		if err := r.Client.IndexDocument(ctx, r.Index, DocumentID(doc), payload); err != nil {
			return fmt.Errorf("index document %d: %w", doc.Index, err)
		}
	}

	slog.Info("[OpenSearch] Indexed sentiment results",
		slog.String("index", r.Index),
		slog.Int("count", len(docs)))
	return nil
}
