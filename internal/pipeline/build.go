package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentireport/config"
	"github.com/spacesedan/sentireport/internal/clients"
	"github.com/spacesedan/sentireport/internal/db"
	"github.com/spacesedan/sentireport/internal/producer"
	"github.com/spacesedan/sentireport/internal/report"
	"github.com/spacesedan/sentireport/internal/sentiment"
)

// Build loads credentials and constructs every client for one run. The
// returned cleanup func releases them and is safe to call after an error.
func Build(ctx context.Context, cfg config.Config) (*Pipeline, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	redditCreds, err := config.LoadCredentials(cfg.Files.RedditCredentials,
		config.REDDIT_CLIENT_ID, config.REDDIT_CLIENT_SECRET)
	if err != nil {
		return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
	}
	reddit := clients.NewRedditClient(ctx, clients.RedditOptions{
		ClientID:     redditCreds.Get(config.REDDIT_CLIENT_ID),
		ClientSecret: redditCreds.Get(config.REDDIT_CLIENT_SECRET),
		UserAgent:    cfg.Search.UserAgent,
	})

	analyzer, closeAnalyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
	}
	closers = append(closers, closeAnalyzer)

	if cfg.Valkey.Enabled() {
		cache, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.Valkey.Address,
			Password: cfg.Valkey.Password,
			TLS:      cfg.Valkey.TLS,
		})
		if err != nil {
			slog.Warn("[Pipeline] Sentiment cache unavailable, continuing without it",
				slog.String("address", cfg.Valkey.Address),
				slog.String("error", err.Error()))
		} else {
			closers = append(closers, cache.Close)
			analyzer = sentiment.NewCachingAnalyzer(analyzer, cache, cfg.Valkey.TTL)
		}
	}

	var sinks []ResultSink
	if cfg.DynamoDB.Enabled() {
		client, err := clients.NewDynamoDBClient(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
		if err != nil {
			return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
		}
		sinks = append(sinks, db.NewResultStore(client, cfg.DynamoDB.Table))
	}
	if cfg.Kafka.Enabled() {
		publisher, err := clients.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic)
		if err != nil {
			return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
		}
		closers = append(closers, publisher.Close)
		sinks = append(sinks, producer.NewResultsProducer(publisher, cfg.Kafka.Topic))
	}
	if cfg.OpenSearch.Enabled() {
		client, err := clients.NewOpenSearchClient(ctx, clients.OpenSearchOptions{
			Endpoint: cfg.OpenSearch.Endpoint,
			Username: cfg.OpenSearch.Username,
			Password: cfg.OpenSearch.Password,
			SigV4:    cfg.OpenSearch.SigV4,
			Region:   cfg.DynamoDB.Region,
		})
		if err != nil {
			return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
		}
		if !client.IsHealthy(ctx) {
			slog.Warn("[Pipeline] OpenSearch cluster is not healthy",
				slog.String("endpoint", cfg.OpenSearch.Endpoint))
		}
		sinks = append(sinks, db.NewResultIndex(client, cfg.OpenSearch.Index))
	}
	if cfg.Postgres.Enabled() {
		pool, err := clients.NewPostgresPool(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
		}
		closers = append(closers, pool.Close)
		store := db.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, cleanup, stageError(STAGE_BUILD, ErrConfiguration, err)
		}
		sinks = append(sinks, store)
	}

	return New(cfg, reddit, analyzer, report.NewRenderer(), sinks...), cleanup, nil
}

func newAnalyzer(ctx context.Context, cfg config.Config) (sentiment.Analyzer, func(), error) {
	noop := func() {}
	backend := cfg.Analyzer.Backend

	var creds config.Credentials
	if keys := config.AnalyzerCredentialKeys(backend); len(keys) > 0 {
		var err error
		creds, err = config.LoadCredentials(cfg.Files.AnalyzerCredentials, keys...)
		if err != nil {
			return nil, noop, err
		}
	}

	switch backend {
	case config.BACKEND_AZURE:
		client := clients.NewTextAnalyticsClient(creds.Get(config.ANALYZER_ENDPOINT), creds.Get(config.ANALYZER_KEY))
		return sentiment.NewAzureAnalyzer(client), noop, nil

	case config.BACKEND_VADER:
		return sentiment.NewVaderAnalyzer(), noop, nil

	case config.BACKEND_GOOGLE:
		client, err := clients.NewLanguageClient(ctx, creds.Get(config.ANALYZER_KEY), creds.Get(config.ANALYZER_ENDPOINT))
		if err != nil {
			return nil, noop, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				slog.Warn("[Pipeline] Failed to close language client",
					slog.String("error", err.Error()))
			}
		}
		return sentiment.NewGoogleAnalyzer(client), closeClient, nil

	case config.BACKEND_OPENAI:
		client := clients.NewOpenAIClient(creds.Get(config.ANALYZER_KEY), creds.Get(config.ANALYZER_ENDPOINT), cfg.Analyzer.OpenAIModel)
		return sentiment.NewOpenAIAnalyzer(client), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown analyzer backend %q", backend)
	}
}
