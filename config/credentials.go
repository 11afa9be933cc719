package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	REDDIT_CLIENT_ID     = "client_id"
	REDDIT_CLIENT_SECRET = "client_secret"
	ANALYZER_KEY         = "key"
	ANALYZER_ENDPOINT    = "endpoint"
)

var ErrMissingCredential = errors.New("missing credential")

// Credentials holds the key=value pairs read from a credentials file.
type Credentials map[string]string

func (c Credentials) Get(key string) string {
	return c[key]
}

var errNoSeparator = errors.New("no '=' separator")

// LoadCredentials parses a key=value file. Values are taken literally, with
// no quoting, comments or variable expansion. Any line without '=' fails the
// whole file, and every key in required must be present and non-empty.
func LoadCredentials(path string, required ...string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials file %s: %w", path, err)
	}
	defer f.Close()

	creds, err := parseCredentials(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	for _, key := range required {
		if creds.Get(key) == "" {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingCredential, key, path)
		}
	}
	return creds, nil
}

func parseCredentials(r io.Reader) (Credentials, error) {
	creds := Credentials{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: %w", lineNo, errNoSeparator)
		}
		creds[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return creds, nil
}

// AnalyzerCredentialKeys lists the keys a backend needs from the analyzer
// credentials file.
func AnalyzerCredentialKeys(backend string) []string {
	switch backend {
	case BACKEND_AZURE:
		return []string{ANALYZER_KEY, ANALYZER_ENDPOINT}
	case BACKEND_GOOGLE, BACKEND_OPENAI:
		return []string{ANALYZER_KEY}
	default:
		return nil
	}
}
