package collector

import (
	"errors"
	"iter"
	"strings"
	"testing"

	"github.com/spacesedan/sentireport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

// seq yields one post per body and records how many were pulled.
func seq(bodies []string, pulled *int) iter.Seq2[models.RedditPost, error] {
	return func(yield func(models.RedditPost, error) bool) {
		for _, b := range bodies {
			*pulled++
			if !yield(models.RedditPost{PostContent: b}, nil) {
				return
			}
		}
	}
}

func TestQualifies(t *testing.T) {
	tests := []struct {
		name string
		body string
		max  int
		want bool
	}{
		{name: "empty body", body: "", max: 500, want: false},
		{name: "at limit", body: words(500), max: 500, want: true},
		{name: "over limit", body: words(501), max: 500, want: false},
		{name: "whitespace only", body: "  \n ", max: 500, want: true},
		{name: "mixed separators", body: "a\tb\nc  d", max: 4, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Qualifies(tt.body, tt.max))
		})
	}
}

func TestCollect_SkipsLongPostsAndStopsAtLimit(t *testing.T) {
	bodies := []string{words(10), words(600)}
	for i := 0; i < 9; i++ {
		bodies = append(bodies, words(5))
	}
	// extra posts that must never be pulled
	bodies = append(bodies, words(5), words(5))

	pulled := 0
	posts, err := Collect(seq(bodies, &pulled), FilterOptions{MaxWordCount: 500, MaxPostCount: 10})
	require.NoError(t, err)

	require.Len(t, posts, 10)
	assert.Equal(t, words(10), posts[0].Text)
	for _, p := range posts[1:] {
		assert.Equal(t, words(5), p.Text)
	}
	assert.Equal(t, 11, pulled)
}

func TestCollect_SourceExhausted(t *testing.T) {
	pulled := 0
	posts, err := Collect(seq([]string{words(3), "", words(4)}, &pulled),
		FilterOptions{MaxWordCount: 500, MaxPostCount: 10})
	require.NoError(t, err)
	assert.Equal(t, []models.Post{{Text: words(3)}, {Text: words(4)}}, posts)
}

func TestCollect_EmptySource(t *testing.T) {
	pulled := 0
	posts, err := Collect(seq(nil, &pulled), FilterOptions{MaxWordCount: 500, MaxPostCount: 10})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)
}

func TestCollect_PropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("boom")
	src := func(yield func(models.RedditPost, error) bool) {
		if !yield(models.RedditPost{PostContent: "ok"}, nil) {
			return
		}
		yield(models.RedditPost{}, fetchErr)
	}

	_, err := Collect(src, FilterOptions{MaxWordCount: 500, MaxPostCount: 10})
	assert.ErrorIs(t, err, fetchErr)
}
