package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// LanguageService is the part of the Cloud Natural Language client the
// sentiment backend calls.
type LanguageService interface {
	AnalyzeSentiment(ctx context.Context, req *languagepb.AnalyzeSentimentRequest, opts ...gax.CallOption) (*languagepb.AnalyzeSentimentResponse, error)
	Close() error
}

// NewLanguageClient connects to Cloud Natural Language. key is either an API
// key or base64 encoded service account JSON; endpoint may be empty.
func NewLanguageClient(ctx context.Context, key, endpoint string) (*language.Client, error) {
	opts := []option.ClientOption{languageCredentialOption(key)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := language.NewRESTClient(ctx, opts...)
	if err != nil {
		slog.Error("[LanguageClient] Failed to create Natural Language client",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("[LanguageClient] failed to create client: %w", err)
	}

	slog.Info("[LanguageClient] Natural Language client initialized")
	return client, nil
}

func languageCredentialOption(key string) option.ClientOption {
	if creds, err := base64.StdEncoding.DecodeString(key); err == nil && json.Valid(creds) {
		return option.WithCredentialsJSON(creds)
	}
	return option.WithAPIKey(key)
}

// SentimentRequest builds a plain text UTF-8 sentiment request.
func SentimentRequest(text, languageCode string) *languagepb.AnalyzeSentimentRequest {
	return &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type:         languagepb.Document_PLAIN_TEXT,
			LanguageCode: languageCode,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}
}
