package collector

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/spacesedan/sentireport/internal/models"
)

type FilterOptions struct {
	MaxWordCount int
	MaxPostCount int
}

// Qualifies reports whether a post body is kept: it must be non-empty and
// have at most maxWordCount whitespace separated words.
func Qualifies(body string, maxWordCount int) bool {
	if body == "" {
		return false
	}
	return len(strings.Fields(body)) <= maxWordCount
}

// Collect consumes posts in order and keeps the qualifying ones until
// MaxPostCount are kept or the sequence ends. The sequence is not advanced
// past the last kept post.
func Collect(posts iter.Seq2[models.RedditPost, error], opts FilterOptions) ([]models.Post, error) {
	kept := make([]models.Post, 0, opts.MaxPostCount)
	if opts.MaxPostCount < 1 {
		return kept, nil
	}

	seen := 0
	for post, err := range posts {
		if err != nil {
			slog.Error("[Collector] Failed to fetch posts",
				slog.Int("seen", seen),
				slog.Int("kept", len(kept)),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("fetching posts: %w", err)
		}
		seen++

		if !Qualifies(post.PostContent, opts.MaxWordCount) {
			slog.Debug("[Collector] Skipping post",
				slog.String("post_id", post.PostID),
				slog.Int("words", len(strings.Fields(post.PostContent))))
			continue
		}

		kept = append(kept, models.Post{Text: post.PostContent})
		if len(kept) >= opts.MaxPostCount {
			break
		}
	}

	slog.Info("[Collector] Collected posts",
		slog.Int("seen", seen),
		slog.Int("kept", len(kept)))
	return kept, nil
}
