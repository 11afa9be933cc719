package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spacesedan/sentireport/internal/models"
)

// ResultCache stores serialized document sentiments by key.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachingAnalyzer serves repeated documents from a cache and sends only the
// misses to the wrapped backend, in one call. Cache failures are logged and
// otherwise ignored.
type CachingAnalyzer struct {
	Backend Analyzer
	Cache   ResultCache
	TTL     time.Duration
}

func NewCachingAnalyzer(backend Analyzer, cache ResultCache, ttl time.Duration) *CachingAnalyzer {
	return &CachingAnalyzer{Backend: backend, Cache: cache, TTL: ttl}
}

func (c *CachingAnalyzer) Name() string { return c.Backend.Name() }

// CacheKey identifies a document's result for a given backend and language.
func CacheKey(backend, language, text string) string {
	sum := sha256.Sum256([]byte(backend + ":" + language + ":" + text))
	return hex.EncodeToString(sum[:])
}

func (c *CachingAnalyzer) AnalyzeSentiment(ctx context.Context, documents []string, language string) ([]models.DocumentSentiment, error) {
	results := make([]models.DocumentSentiment, len(documents))
	var missIdx []int
	var missDocs []string

	for i, doc := range documents {
		if ds, ok := c.lookup(ctx, CacheKey(c.Backend.Name(), language, doc)); ok {
			ds.ID = strconv.Itoa(i)
			results[i] = ds
			continue
		}
		missIdx = append(missIdx, i)
		missDocs = append(missDocs, doc)
	}

	slog.Info("[SentimentCache] Cache lookup complete",
		slog.Int("hits", len(documents)-len(missDocs)),
		slog.Int("misses", len(missDocs)))

	if len(missDocs) == 0 {
		return results, nil
	}

	fresh, err := c.Backend.AnalyzeSentiment(ctx, missDocs, language)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missDocs) {
		return nil, fmt.Errorf("backend returned %d results for %d documents", len(fresh), len(missDocs))
	}

	for j, idx := range missIdx {
		ds := fresh[j]
		ds.ID = strconv.Itoa(idx)
		results[idx] = ds
		c.store(ctx, CacheKey(c.Backend.Name(), language, missDocs[j]), ds)
	}
	return results, nil
}

func (c *CachingAnalyzer) lookup(ctx context.Context, key string) (models.DocumentSentiment, bool) {
	var ds models.DocumentSentiment
	raw, found, err := c.Cache.Get(ctx, key)
	if err != nil {
		slog.Warn("[SentimentCache] Lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return ds, false
	}
	if !found {
		return ds, false
	}
	if err := json.Unmarshal([]byte(raw), &ds); err != nil {
		slog.Warn("[SentimentCache] Dropping unreadable entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return ds, false
	}
	return ds, true
}

func (c *CachingAnalyzer) store(ctx context.Context, key string, ds models.DocumentSentiment) {
	raw, err := json.Marshal(ds)
	if err != nil {
		slog.Warn("[SentimentCache] Failed to marshal result", slog.String("error", err.Error()))
		return
	}
	if err := c.Cache.Set(ctx, key, string(raw), c.TTL); err != nil {
		slog.Warn("[SentimentCache] Store failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
