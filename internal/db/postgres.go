package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spacesedan/sentireport/internal/models"
	"github.com/spacesedan/sentireport/internal/utils"
)

const (
	POSTGRES_COLUMNS    = 9
	POSTGRES_BATCH_SIZE = 500
)

const createResultsTable = `
    CREATE TABLE IF NOT EXISTS sentiment_results (
        run_id          TEXT        NOT NULL,
        doc_index       INTEGER     NOT NULL,
        query           TEXT        NOT NULL,
        backend         TEXT        NOT NULL,
        language        TEXT        NOT NULL,
        sentiment_label TEXT        NOT NULL,
        scores          JSONB       NOT NULL,
        sentences       JSONB       NOT NULL,
        text            TEXT        NOT NULL,
        created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        PRIMARY KEY (run_id, doc_index)
    )
`

type PgxExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps one row per analyzed document in sentiment_results.
type PostgresStore struct {
	DB PgxExecer
}

func NewPostgresStore(db PgxExecer) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, createResultsTable); err != nil {
		return fmt.Errorf("failed to create sentiment_results: %w", err)
	}
	return nil
}

func (s *PostgresStore) StoreResults(ctx context.Context, docs []models.AnalyzedDocument) error {
	if len(docs) == 0 {
		return nil // No results to insert
	}

	stored := int64(0)
	for _, batch := range utils.Chunk(docs, POSTGRES_BATCH_SIZE) {
		query, values, err := insertResults(batch)
		if err != nil {
			return err
		}

		tag, err := s.DB.Exec(ctx, query, values...)
		if err != nil {
			slog.Error("[Postgres] Failed to insert sentiment results",
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to insert sentiment results: %w", err)
		}
		stored += tag.RowsAffected()
	}

	slog.Info("[Postgres] Stored sentiment results",
		slog.Int("count", len(docs)),
		slog.Int64("inserted", stored))
	return nil
}

// insertResults builds one multi-row INSERT for docs. Rows already stored
// for the same run and index are left untouched.
func insertResults(docs []models.AnalyzedDocument) (string, []any, error) {
	query := `INSERT INTO sentiment_results (run_id, doc_index, query, backend, language, sentiment_label, scores, sentences, text, created_at) VALUES `

	values := make([]any, 0, len(docs)*POSTGRES_COLUMNS)
	placeholderParts := make([]string, 0, len(docs))

	for i, doc := range docs {
		scores, err := json.Marshal(doc.ConfidenceScores)
		if err != nil {
			return "", nil, fmt.Errorf("marshal scores for document %d: %w", doc.Index, err)
		}
		sentences, err := json.Marshal(doc.Sentences)
		if err != nil {
			return "", nil, fmt.Errorf("marshal sentences for document %d: %w", doc.Index, err)
		}

		offset := i * POSTGRES_COLUMNS
		placeholders := make([]string, 0, POSTGRES_COLUMNS)
		for c := 1; c <= POSTGRES_COLUMNS; c++ {
			placeholders = append(placeholders, fmt.Sprintf("$%d", offset+c))
		}
		placeholderParts = append(placeholderParts, "("+strings.Join(placeholders, ", ")+", NOW())")

		values = append(values,
			doc.RunID, doc.Index, doc.Query, doc.Backend, doc.Language,
			string(doc.Sentiment), string(scores), string(sentences), doc.Text)
	}

	query += strings.Join(placeholderParts, ", ")
	query += `
        ON CONFLICT (run_id, doc_index) DO NOTHING
    `
	return query, values, nil
}
