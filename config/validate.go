package config

import (
	"fmt"
	"strings"
)

// Validate validates the entire configuration
func (c *Config) Validate() error {
	checks := []func(*Config) error{
		validateSearchConfig,
		validateAnalyzerConfig,
		validateFileConfig,
		validateSinkConfig,
	}

	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}

	return nil
}

func validateSearchConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Search.Query) == "" {
		return fmt.Errorf("search query is empty")
	}
	if cfg.Search.Subreddit == "" {
		return fmt.Errorf("search subreddit is empty")
	}
	if cfg.Search.MaxWordCount < 1 {
		return fmt.Errorf("max word count must be positive, got %d", cfg.Search.MaxWordCount)
	}
	if cfg.Search.MaxPostCount < 1 {
		return fmt.Errorf("max post count must be positive, got %d", cfg.Search.MaxPostCount)
	}
	if cfg.Search.Limit < 1 {
		return fmt.Errorf("search limit must be positive, got %d", cfg.Search.Limit)
	}
	return nil
}

func validateAnalyzerConfig(cfg *Config) error {
	switch cfg.Analyzer.Backend {
	case BACKEND_AZURE, BACKEND_VADER, BACKEND_GOOGLE, BACKEND_OPENAI:
	default:
		return fmt.Errorf("unknown analyzer backend %q", cfg.Analyzer.Backend)
	}
	if cfg.Analyzer.Language == "" {
		return fmt.Errorf("analyzer language is empty")
	}
	if cfg.Analyzer.Backend == BACKEND_OPENAI && cfg.Analyzer.OpenAIModel == "" {
		return fmt.Errorf("openai model is empty")
	}
	return nil
}

func validateFileConfig(cfg *Config) error {
	files := map[string]string{
		"reddit credentials file":   cfg.Files.RedditCredentials,
		"analyzer credentials file": cfg.Files.AnalyzerCredentials,
		"document output file":      cfg.Files.DocumentOutput,
		"document input file":       cfg.Files.DocumentInput,
		"report file":               cfg.Files.Report,
	}
	for name, path := range files {
		if path == "" {
			return fmt.Errorf("%s is empty", name)
		}
	}
	return nil
}

func validateSinkConfig(cfg *Config) error {
	if cfg.Valkey.Enabled() && cfg.Valkey.TTL <= 0 {
		return fmt.Errorf("sentiment cache ttl must be positive, got %s", cfg.Valkey.TTL)
	}
	if cfg.DynamoDB.Enabled() && cfg.DynamoDB.Region == "" {
		return fmt.Errorf("aws region is empty")
	}
	if cfg.Kafka.Enabled() && cfg.Kafka.Topic == "" {
		return fmt.Errorf("kafka results topic is empty")
	}
	if cfg.OpenSearch.Enabled() {
		if cfg.OpenSearch.Index == "" {
			return fmt.Errorf("opensearch index is empty")
		}
		if cfg.OpenSearch.SigV4 && cfg.DynamoDB.Region == "" {
			return fmt.Errorf("aws region is empty")
		}
	}
	if cfg.Postgres.Enabled() && (cfg.Postgres.User == "" || cfg.Postgres.Name == "") {
		return fmt.Errorf("postgres sink needs DB_USER and DB_NAME")
	}
	return nil
}
