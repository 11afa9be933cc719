package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/sentireport/internal/models"
)

const (
	TEXT_ANALYTICS_SENTIMENT_PATH = "/text/analytics/v3.1/sentiment"
	// TEXT_ANALYTICS_BATCH_SIZE is the service's cap on documents per request.
	TEXT_ANALYTICS_BATCH_SIZE = 10
)

type TextAnalyticsClient struct {
	Client   *http.Client
	Endpoint string
	Key      string
	Backoff  Backoff
}

func NewTextAnalyticsClient(endpoint, key string) *TextAnalyticsClient {
	slog.Info("[TextAnalyticsClient] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", REQUEST_TIMEOUT))
	return &TextAnalyticsClient{
		Client:   &http.Client{Timeout: REQUEST_TIMEOUT},
		Endpoint: strings.TrimRight(endpoint, "/"),
		Key:      key,
		Backoff:  DefaultBackoff(),
	}
}

// DoWithRetry posts body to url, retrying transport errors, 429s and 5xxs
// with a doubling backoff. Any other response is returned to the caller.
func (t *TextAnalyticsClient) DoWithRetry(ctx context.Context, url string, body []byte) (*http.Response, error) {
	backoff := t.Backoff.Initial

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		req.Header.Set("Ocp-Apim-Subscription-Key", t.Key)

		resp, err := t.Client.Do(req)
		retryable := err != nil || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable || attempt >= t.Backoff.Retries {
			return resp, err
		}
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		slog.Warn("[TextAnalyticsClient] Request failed, will retry",
			slog.Int("attempt", attempt),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = t.Backoff.next(backoff)
	}
}

// AnalyzeSentiment sends one request of at most TEXT_ANALYTICS_BATCH_SIZE
// documents.
func (t *TextAnalyticsClient) AnalyzeSentiment(ctx context.Context, input models.TextAnalyticsRequest) (models.TextAnalyticsResponse, error) {
	var result models.TextAnalyticsResponse
	if len(input.Documents) > TEXT_ANALYTICS_BATCH_SIZE {
		return result, fmt.Errorf("[TextAnalyticsClient] batch of %d exceeds limit of %d",
			len(input.Documents), TEXT_ANALYTICS_BATCH_SIZE)
	}

	slog.Info("[TextAnalyticsClient] Requesting sentiment analysis",
		slog.Int("documents", len(input.Documents)))
	start := time.Now()

	err := t.postJSON(ctx, t.Endpoint+TEXT_ANALYTICS_SENTIMENT_PATH, input, &result)
	if err != nil {
		slog.Error("[TextAnalyticsClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Info("[TextAnalyticsClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.String("model_version", result.ModelVersion))
	return result, nil
}

func (t *TextAnalyticsClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[TextAnalyticsClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := t.DoWithRetry(ctx, endpoint, body)
	if err != nil {
		slog.Error("[TextAnalyticsClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[TextAnalyticsClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[TextAnalyticsClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func statusError(code int, body []byte) error {
	var serviceErr models.TextAnalyticsErrorResponse
	detail := ""
	if json.Unmarshal(body, &serviceErr) == nil && serviceErr.Error.Message != "" {
		detail = fmt.Sprintf(" (%s: %s)", serviceErr.Error.Code, serviceErr.Error.Message)
	}

	slog.Error("[TextAnalyticsClient] Unexpected response",
		slog.Int("status_code", code),
		getPreview(body))

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d%s", ErrUnauthorized, code, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d%s", ErrRateLimited, code, detail)
	default:
		return fmt.Errorf("%w: %d%s", ErrUnexpectedStatus, code, detail)
	}
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
