package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spacesedan/sentireport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func pgDocs(n int) []models.AnalyzedDocument {
	docs := make([]models.AnalyzedDocument, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, models.AnalyzedDocument{
			RunSummary: models.RunSummary{RunID: "run-1", Query: "Canada", Backend: "vader", Language: "en-US"},
			Index:      i,
			Text:       "Great day.",
			DocumentResult: models.DocumentResult{
				DocumentSentiment: models.DocumentSentiment{
					ID:               "0",
					Sentiment:        models.LabelPositive,
					ConfidenceScores: models.ConfidenceScores{Positive: 0.9, Neutral: 0.1},
					Sentences: []models.SentenceSentiment{
						{Text: "Great day.", Sentiment: models.LabelPositive},
					},
				},
			},
		})
	}
	return docs
}

func TestPostgresStore_StoreResults(t *testing.T) {
	f := &fakeExecer{}
	store := NewPostgresStore(f)

	require.NoError(t, store.StoreResults(context.Background(), pgDocs(2)))
	require.Len(t, f.calls, 1)

	call := f.calls[0]
	assert.Contains(t, call.sql, "INSERT INTO sentiment_results")
	assert.Contains(t, call.sql, "($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()), ($10, $11,")
	assert.Contains(t, call.sql, "ON CONFLICT (run_id, doc_index) DO NOTHING")
	require.Len(t, call.args, 2*POSTGRES_COLUMNS)
	assert.Equal(t, "run-1", call.args[0])
	assert.Equal(t, 1, call.args[POSTGRES_COLUMNS+1])
	assert.Equal(t, "positive", call.args[5])
	assert.JSONEq(t, `{"positive":0.9,"neutral":0.1,"negative":0}`, call.args[6].(string))
}

func TestPostgresStore_Batches(t *testing.T) {
	f := &fakeExecer{}
	store := NewPostgresStore(f)

	require.NoError(t, store.StoreResults(context.Background(), pgDocs(POSTGRES_BATCH_SIZE+1)))
	require.Len(t, f.calls, 2)
	assert.Len(t, f.calls[1].args, POSTGRES_COLUMNS)
}

func TestPostgresStore_Empty(t *testing.T) {
	f := &fakeExecer{}
	require.NoError(t, NewPostgresStore(f).StoreResults(context.Background(), nil))
	assert.Empty(t, f.calls)
}

func TestPostgresStore_Error(t *testing.T) {
	dbErr := errors.New("relation does not exist")
	store := NewPostgresStore(&fakeExecer{err: dbErr})

	err := store.StoreResults(context.Background(), pgDocs(1))
	assert.ErrorIs(t, err, dbErr)
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	f := &fakeExecer{}
	require.NoError(t, NewPostgresStore(f).EnsureSchema(context.Background()))
	require.Len(t, f.calls, 1)
	assert.True(t, strings.Contains(f.calls[0].sql, "PRIMARY KEY (run_id, doc_index)"))
}
