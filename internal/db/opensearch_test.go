package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spacesedan/sentireport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexed struct {
	index, id string
	body      []byte
}

type fakeIndexer struct {
	docs   []indexed
	failOn string
}

func (f *fakeIndexer) IndexDocument(_ context.Context, index, id string, body []byte) error {
	if id == f.failOn {
		return errors.New("cluster read-only")
	}
	f.docs = append(f.docs, indexed{index: index, id: id, body: body})
	return nil
}

func TestResultIndex_StoreResults(t *testing.T) {
	f := &fakeIndexer{}
	idx := NewResultIndex(f, "")

	require.NoError(t, idx.StoreResults(context.Background(), pgDocs(2)))
	require.Len(t, f.docs, 2)
	assert.Equal(t, DEFAULT_RESULTS_INDEX, f.docs[0].index)
	assert.Equal(t, "run-1-0", f.docs[0].id)
	assert.Equal(t, "run-1-1", f.docs[1].id)

	var got models.AnalyzedDocument
	require.NoError(t, json.Unmarshal(f.docs[1].body, &got))
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, models.LabelPositive, got.Sentiment)
}

func TestResultIndex_StopsOnError(t *testing.T) {
	f := &fakeIndexer{failOn: "run-1-1"}
	err := NewResultIndex(f, "custom").StoreResults(context.Background(), pgDocs(3))

	require.Error(t, err)
	assert.Len(t, f.docs, 1)
	assert.Equal(t, "custom", f.docs[0].index)
}
