package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/sentireport/config"
	"github.com/spacesedan/sentireport/internal/collector"
	"github.com/spacesedan/sentireport/internal/document"
	"github.com/spacesedan/sentireport/internal/models"
	"github.com/spacesedan/sentireport/internal/report"
	"github.com/spacesedan/sentireport/internal/sentiment"
)

type PostSource interface {
	SearchPosts(ctx context.Context, subreddit, query string, limit int) iter.Seq2[models.RedditPost, error]
}

type ReportRenderer interface {
	RenderFile(path string, in report.Input) (int, error)
}

// ResultSink receives every analyzed document once the report is written.
type ResultSink interface {
	Name() string
	StoreResults(ctx context.Context, docs []models.AnalyzedDocument) error
}

type Pipeline struct {
	Config   config.Config
	Source   PostSource
	Analyzer sentiment.Analyzer
	Renderer ReportRenderer
	Sinks    []ResultSink

	now   func() time.Time
	newID func() string
}

type Result struct {
	RunID     string
	Posts     []models.Post
	Documents []models.DocumentResult
	Aggregate models.Aggregate
	Pages     int
}

// Empty reports whether the run found no qualifying posts.
func (r Result) Empty() bool {
	return len(r.Posts) == 0
}

func New(cfg config.Config, source PostSource, analyzer sentiment.Analyzer, renderer ReportRenderer, sinks ...ResultSink) *Pipeline {
	return &Pipeline{
		Config:   cfg,
		Source:   source,
		Analyzer: analyzer,
		Renderer: renderer,
		Sinks:    sinks,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run collects, persists, analyzes and reports on one search. Sinks run last;
// the report is already on disk if one of them fails.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: p.newID()}
	files := p.Config.Files
	search := p.Config.Search

	slog.Info("[Pipeline] Starting run",
		slog.String("run_id", res.RunID),
		slog.String("query", search.Query),
		slog.String("subreddit", search.Subreddit),
		slog.String("backend", p.Analyzer.Name()))

	posts, err := collector.Collect(
		p.Source.SearchPosts(ctx, search.Subreddit, search.Query, search.Limit),
		collector.FilterOptions{MaxWordCount: search.MaxWordCount, MaxPostCount: search.MaxPostCount},
	)
	if err != nil {
		return res, stageError(STAGE_COLLECT, ErrCollection, err)
	}

	if err := document.Write(files.DocumentOutput, posts); err != nil {
		return res, stageError(STAGE_WRITE, ErrPersistence, err)
	}

	if document.CaseMismatch(files.DocumentOutput, files.DocumentInput) {
		slog.Warn("[Pipeline] Document output and input paths differ only by case",
			slog.String("output", files.DocumentOutput),
			slog.String("input", files.DocumentInput))
	}

	res.Posts, err = document.Read(files.DocumentInput)
	if err != nil {
		return res, stageError(STAGE_READ, ErrPersistence, err)
	}
	if res.Empty() {
		slog.Warn("[Pipeline] No qualifying posts found, report will be empty",
			slog.String("query", search.Query))
	}

	texts := models.Texts(res.Posts)
	sentiments, err := p.Analyzer.AnalyzeSentiment(ctx, texts, p.Config.Analyzer.Language)
	if err != nil {
		return res, stageError(STAGE_ANALYZE, ErrInference, err)
	}
	if len(sentiments) != len(texts) {
		return res, stageError(STAGE_ANALYZE, ErrInference,
			fmt.Errorf("expected %d results, got %d", len(texts), len(sentiments)))
	}

	res.Documents = sentiment.LabelSentences(sentiments)
	res.Aggregate = sentiment.Aggregate(res.Documents)
	logDocuments(res.Documents)

	res.Pages, err = p.Renderer.RenderFile(files.Report, report.Input{
		Aggregate: res.Aggregate,
		Texts:     texts,
	})
	if err != nil {
		return res, stageError(STAGE_RENDER, ErrRender, err)
	}

	if err := p.publish(ctx, res); err != nil {
		return res, err
	}

	slog.Info("[Pipeline] Run complete",
		slog.String("run_id", res.RunID),
		slog.Int("documents", len(res.Documents)),
		slog.Int("positive_sentences", res.Aggregate.SentenceCounts.Positive),
		slog.Int("neutral_sentences", res.Aggregate.SentenceCounts.Neutral),
		slog.Int("negative_sentences", res.Aggregate.SentenceCounts.Negative),
		slog.String("report", files.Report))
	return res, nil
}

func (p *Pipeline) publish(ctx context.Context, res Result) error {
	if len(p.Sinks) == 0 || len(res.Documents) == 0 {
		return nil
	}

	summary := models.RunSummary{
		RunID:     res.RunID,
		Query:     p.Config.Search.Query,
		Backend:   p.Analyzer.Name(),
		Language:  p.Config.Analyzer.Language,
		CreatedAt: p.now().UTC(),
	}
	docs := make([]models.AnalyzedDocument, 0, len(res.Documents))
	for i, d := range res.Documents {
		docs = append(docs, models.AnalyzedDocument{
			RunSummary:     summary,
			Index:          i,
			Text:           res.Posts[i].Text,
			DocumentResult: d,
		})
	}

	for _, sink := range p.Sinks {
		if err := sink.StoreResults(ctx, docs); err != nil {
			slog.Error("[Pipeline] Failed to publish results",
				slog.String("sink", sink.Name()),
				slog.String("error", err.Error()))
			return stageError(STAGE_PUBLISH, ErrPublish, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return nil
}

func logDocuments(docs []models.DocumentResult) {
	for i, doc := range docs {
		slog.Info("[Pipeline] Document sentiment",
			slog.Int("index", i),
			slog.String("sentiment", string(doc.Sentiment)),
			slog.Float64("positive", doc.ConfidenceScores.Positive),
			slog.Float64("neutral", doc.ConfidenceScores.Neutral),
			slog.Float64("negative", doc.ConfidenceScores.Negative))

		for j, s := range doc.Sentences {
			slog.Info("[Pipeline] Sentence sentiment",
				slog.Int("index", i),
				slog.Int("sentence", j),
				slog.String("text", s.Text),
				slog.String("label", string(doc.SentenceLabels[j])),
				slog.Float64("positive", s.ConfidenceScores.Positive),
				slog.Float64("neutral", s.ConfidenceScores.Neutral),
				slog.Float64("negative", s.ConfidenceScores.Negative))
		}
	}
}
