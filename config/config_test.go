package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeFile(t, "credentials_reddit.txt", "client_id=abc123\nclient_secret=s3cr3t-value\n")

	creds, err := LoadCredentials(path, REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET)
	require.NoError(t, err)
	assert.Equal(t, "abc123", creds.Get(REDDIT_CLIENT_ID))
	assert.Equal(t, "s3cr3t-value", creds.Get(REDDIT_CLIENT_SECRET))
}

func TestLoadCredentials_AzureEndpoint(t *testing.T) {
	path := writeFile(t, "credentials.txt",
		"key=0123456789abcdef\nendpoint=https://example.cognitiveservices.azure.com/\n")

	creds, err := LoadCredentials(path, AnalyzerCredentialKeys(BACKEND_AZURE)...)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", creds.Get(ANALYZER_KEY))
	assert.Equal(t, "https://example.cognitiveservices.azure.com/", creds.Get(ANALYZER_ENDPOINT))
}

func TestLoadCredentials_MalformedLine(t *testing.T) {
	path := writeFile(t, "credentials.txt", "key=abc\nthis line has no separator\n")

	_, err := LoadCredentials(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse credentials file")
}

func TestLoadCredentials_ValuesAreLiteral(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	path := writeFile(t, "credentials_reddit.txt",
		"client_id=\"q\"\nclient_secret=ab${HOME}cd\nkey=a b #c\nendpoint=$HOME=x\n")

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, `"q"`, creds.Get(REDDIT_CLIENT_ID))
	assert.Equal(t, "ab${HOME}cd", creds.Get(REDDIT_CLIENT_SECRET))
	assert.Equal(t, "a b #c", creds.Get(ANALYZER_KEY))
	assert.Equal(t, "$HOME=x", creds.Get(ANALYZER_ENDPOINT))
}

func TestLoadCredentials_BlankLineIsMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"blank":   "client_id=abc\n\nclient_secret=def\n",
		"comment": "# reddit app\nclient_id=abc\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "credentials.txt", content)

			_, err := LoadCredentials(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, errNoSeparator)
			assert.Contains(t, err.Error(), "failed to parse credentials file")
		})
	}
}

func TestLoadCredentials_MissingKey(t *testing.T) {
	path := writeFile(t, "credentials.txt", "key=abc\n")

	_, err := LoadCredentials(path, AnalyzerCredentialKeys(BACKEND_AZURE)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), `"endpoint"`)
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzerCredentialKeys(t *testing.T) {
	assert.Equal(t, []string{ANALYZER_KEY, ANALYZER_ENDPOINT}, AnalyzerCredentialKeys(BACKEND_AZURE))
	assert.Equal(t, []string{ANALYZER_KEY}, AnalyzerCredentialKeys(BACKEND_GOOGLE))
	assert.Equal(t, []string{ANALYZER_KEY}, AnalyzerCredentialKeys(BACKEND_OPENAI))
	assert.Empty(t, AnalyzerCredentialKeys(BACKEND_VADER))
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SEARCH_QUERY", "MAX_WORD_COUNT", "MAX_POST_COUNT", "SEARCH_LIMIT",
		"ANALYZER_BACKEND", "ANALYZER_LANGUAGE", "DOCUMENT_OUTPUT_FILE",
		"DOCUMENT_INPUT_FILE", "VALKEY_INIT_ADDRESS", "RESULTS_TABLE_NAME", "KAFKA_BROKER",
		"OPENSEARCH_ENDPOINT", "DB_HOST",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Search.MaxWordCount)
	assert.Equal(t, 10, cfg.Search.MaxPostCount)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, "Canada", cfg.Search.Query)
	assert.Equal(t, "en-US", cfg.Analyzer.Language)
	assert.Equal(t, BACKEND_AZURE, cfg.Analyzer.Backend)
	assert.Equal(t, "Document.json", cfg.Files.DocumentOutput)
	assert.Equal(t, "document.json", cfg.Files.DocumentInput)
	assert.False(t, cfg.Valkey.Enabled())
	assert.False(t, cfg.DynamoDB.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.OpenSearch.Enabled())
	assert.False(t, cfg.Postgres.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SEARCH_QUERY", "War")
	t.Setenv("MAX_POST_COUNT", "25")
	t.Setenv("SEARCH_LIMIT", "100")
	t.Setenv("ANALYZER_BACKEND", "VADER")
	t.Setenv("VALKEY_INIT_ADDRESS", "localhost:6379")
	t.Setenv("SENTIMENT_CACHE_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "War", cfg.Search.Query)
	assert.Equal(t, 25, cfg.Search.MaxPostCount)
	assert.Equal(t, 100, cfg.Search.Limit)
	assert.Equal(t, BACKEND_VADER, cfg.Analyzer.Backend)
	assert.True(t, cfg.Valkey.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.Valkey.TTL)
}

func TestLoad_InvalidInteger(t *testing.T) {
	t.Setenv("MAX_WORD_COUNT", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_WORD_COUNT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty query", mutate: func(c *Config) { c.Search.Query = "  " }, wantErr: "search query is empty"},
		{name: "zero post count", mutate: func(c *Config) { c.Search.MaxPostCount = 0 }, wantErr: "max post count"},
		{name: "negative word count", mutate: func(c *Config) { c.Search.MaxWordCount = -1 }, wantErr: "max word count"},
		{name: "unknown backend", mutate: func(c *Config) { c.Analyzer.Backend = "watson" }, wantErr: "unknown analyzer backend"},
		{name: "empty report path", mutate: func(c *Config) { c.Files.Report = "" }, wantErr: "report file is empty"},
		{name: "kafka without topic", mutate: func(c *Config) {
			c.Kafka.Broker = "localhost:9092"
			c.Kafka.Topic = ""
		}, wantErr: "kafka results topic"},
		{name: "opensearch without index", mutate: func(c *Config) {
			c.OpenSearch.Endpoint = "https://localhost:9200"
			c.OpenSearch.Index = ""
		}, wantErr: "opensearch index"},
		{name: "postgres without database", mutate: func(c *Config) {
			c.Postgres.Host = "localhost"
			c.Postgres.User = "sentiment"
		}, wantErr: "DB_NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss word", Name: "results", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/results?sslmode=disable", p.DSN())
}

func TestLoad_Sinks(t *testing.T) {
	t.Setenv("OPENSEARCH_ENDPOINT", "https://search.local:9200")
	t.Setenv("OPENSEARCH_SIGV4", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "results")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OpenSearch.Enabled())
	assert.True(t, cfg.OpenSearch.SigV4)
	assert.Equal(t, "sentiment-results", cfg.OpenSearch.Index)
	assert.True(t, cfg.Postgres.Enabled())
	assert.Equal(t, "5432", cfg.Postgres.Port)
}
