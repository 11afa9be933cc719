package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BACKEND_AZURE  = "azure"
	BACKEND_VADER  = "vader"
	BACKEND_GOOGLE = "google"
	BACKEND_OPENAI = "openai"
)

const (
	DEFAULT_MAX_WORD_COUNT = 500
	DEFAULT_MAX_POST_COUNT = 10
	DEFAULT_QUERY          = "Canada"
	DEFAULT_SUBREDDIT      = "all"
	DEFAULT_LANGUAGE       = "en-US"
	DEFAULT_USER_AGENT     = "CollectionData"
	DEFAULT_OPENAI_MODEL   = "gpt-4o-mini"
)

type Config struct {
	Env      string
	LogLevel string

	Search   SearchConfig
	Analyzer AnalyzerConfig
	Files    FileConfig

	Valkey     ValkeyConfig
	DynamoDB   DynamoDBConfig
	Kafka      KafkaConfig
	OpenSearch OpenSearchConfig
	Postgres   PostgresConfig
}

type SearchConfig struct {
	Query        string
	Subreddit    string
	UserAgent    string
	MaxWordCount int
	MaxPostCount int
	// Limit is how many posts are requested from the search API. The
	// filter may keep fewer.
	Limit int
}

type AnalyzerConfig struct {
	Backend     string
	Language    string
	OpenAIModel string
}

type FileConfig struct {
	RedditCredentials   string
	AnalyzerCredentials string
	DocumentOutput      string
	DocumentInput       string
	Report              string
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

func (v ValkeyConfig) Enabled() bool { return v.Address != "" }

type DynamoDBConfig struct {
	Table    string
	Region   string
	Endpoint string
}

func (d DynamoDBConfig) Enabled() bool { return d.Table != "" }

type KafkaConfig struct {
	Broker string
	Topic  string
}

func (k KafkaConfig) Enabled() bool { return k.Broker != "" }

type OpenSearchConfig struct {
	Endpoint string
	Username string
	Password string
	SigV4    bool
	Index    string
}

func (o OpenSearchConfig) Enabled() bool { return o.Endpoint != "" }

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (p PostgresConfig) Enabled() bool { return p.Host != "" }

func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

// Load builds the run configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	var err error

	cfg.Env = getEnv("APP_ENV", "dev")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.Search = SearchConfig{
		Query:     getEnv("SEARCH_QUERY", DEFAULT_QUERY),
		Subreddit: getEnv("SEARCH_SUBREDDIT", DEFAULT_SUBREDDIT),
		UserAgent: getEnv("REDDIT_USER_AGENT", DEFAULT_USER_AGENT),
	}
	if cfg.Search.MaxWordCount, err = getEnvInt("MAX_WORD_COUNT", DEFAULT_MAX_WORD_COUNT); err != nil {
		return cfg, err
	}
	if cfg.Search.MaxPostCount, err = getEnvInt("MAX_POST_COUNT", DEFAULT_MAX_POST_COUNT); err != nil {
		return cfg, err
	}
	if cfg.Search.Limit, err = getEnvInt("SEARCH_LIMIT", cfg.Search.MaxPostCount); err != nil {
		return cfg, err
	}

	cfg.Analyzer = AnalyzerConfig{
		Backend:     strings.ToLower(getEnv("ANALYZER_BACKEND", BACKEND_AZURE)),
		Language:    getEnv("ANALYZER_LANGUAGE", DEFAULT_LANGUAGE),
		OpenAIModel: getEnv("OPENAI_MODEL", DEFAULT_OPENAI_MODEL),
	}

	cfg.Files = FileConfig{
		RedditCredentials:   getEnv("REDDIT_CREDENTIALS_FILE", "credentials_reddit.txt"),
		AnalyzerCredentials: getEnv("ANALYZER_CREDENTIALS_FILE", "credentials.txt"),
		DocumentOutput:      getEnv("DOCUMENT_OUTPUT_FILE", "Document.json"),
		DocumentInput:       getEnv("DOCUMENT_INPUT_FILE", "document.json"),
		Report:              getEnv("REPORT_FILE", "sentiment_analysis_output.pdf"),
	}

	cfg.Valkey = ValkeyConfig{
		Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		TLS:      os.Getenv("VALKEY_TLS") == "true",
		TTL:      24 * time.Hour,
	}
	if ttl := os.Getenv("SENTIMENT_CACHE_TTL"); ttl != "" {
		if cfg.Valkey.TTL, err = time.ParseDuration(ttl); err != nil {
			return cfg, fmt.Errorf("SENTIMENT_CACHE_TTL must be a duration, got %q", ttl)
		}
	}

	cfg.DynamoDB = DynamoDBConfig{
		Table:    os.Getenv("RESULTS_TABLE_NAME"),
		Region:   getEnv("AWS_REGION", "us-west-2"),
		Endpoint: os.Getenv("AWS_ENDPOINT"),
	}

	cfg.Kafka = KafkaConfig{
		Broker: os.Getenv("KAFKA_BROKER"),
		Topic:  getEnv("KAFKA_RESULTS_TOPIC", "sentiment-results"),
	}

	cfg.OpenSearch = OpenSearchConfig{
		Endpoint: os.Getenv("OPENSEARCH_ENDPOINT"),
		Username: getEnv("OPENSEARCH_USERNAME", "admin"),
		Password: os.Getenv("OPENSEARCH_PASSWORD"),
		SigV4:    os.Getenv("OPENSEARCH_SIGV4") == "true",
		Index:    getEnv("OPENSEARCH_INDEX", "sentiment-results"),
	}

	cfg.Postgres = PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("failed to validate config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration the pipeline uses when no environment
// overrides are present.
func Default() Config {
	return Config{
		Env:      "dev",
		LogLevel: "info",
		Search: SearchConfig{
			Query:        DEFAULT_QUERY,
			Subreddit:    DEFAULT_SUBREDDIT,
			UserAgent:    DEFAULT_USER_AGENT,
			MaxWordCount: DEFAULT_MAX_WORD_COUNT,
			MaxPostCount: DEFAULT_MAX_POST_COUNT,
			Limit:        DEFAULT_MAX_POST_COUNT,
		},
		Analyzer: AnalyzerConfig{
			Backend:     BACKEND_AZURE,
			Language:    DEFAULT_LANGUAGE,
			OpenAIModel: DEFAULT_OPENAI_MODEL,
		},
		Files: FileConfig{
			RedditCredentials:   "credentials_reddit.txt",
			AnalyzerCredentials: "credentials.txt",
			DocumentOutput:      "Document.json",
			DocumentInput:       "document.json",
			Report:              "sentiment_analysis_output.pdf",
		},
		Valkey:     ValkeyConfig{TTL: 24 * time.Hour},
		DynamoDB:   DynamoDBConfig{Region: "us-west-2"},
		Kafka:      KafkaConfig{Topic: "sentiment-results"},
		OpenSearch: OpenSearchConfig{Username: "admin", Index: "sentiment-results"},
		Postgres:   PostgresConfig{Port: "5432", SSLMode: "disable"},
	}
}
