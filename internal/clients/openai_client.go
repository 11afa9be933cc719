package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	Completions *openai.ChatCompletionService
	Model       string
}

// NewOpenAIClient builds a chat completion client. baseURL may be empty for
// the public API; extra options are applied last.
func NewOpenAIClient(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAIClient {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: REQUEST_TIMEOUT}),
		option.WithMaxRetries(MAX_RETRIES),
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	clientOpts = append(clientOpts, opts...)

	client := openai.NewClient(clientOpts...)
	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", REQUEST_TIMEOUT),
		slog.String("model", model))

	return &OpenAIClient{
		Completions: client.Chat.Completions,
		Model:       model,
	}
}

// Complete sends a system prompt and a user message and returns the text of
// the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	chatCompletion, err := c.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		}),
		Model:       openai.F(openai.ChatModel(c.Model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		slog.Error("[OpenAIClient] OpenAI API call failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("[OpenAIClient] chat completion failed: %w", err)
	}

	if len(chatCompletion.Choices) == 0 || strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
		slog.Warn("[OpenAIClient] OpenAI returned empty response")
		return "", fmt.Errorf("[OpenAIClient] empty completion")
	}

	slog.Info("[OpenAIClient] Chat completion successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int64("total_tokens", chatCompletion.Usage.TotalTokens))
	return chatCompletion.Choices[0].Message.Content, nil
}
