package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/spacesedan/sentireport/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	REDDIT_AUTH_URL  = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL   = "https://oauth.reddit.com"
	REDDIT_PAGE_SIZE = 100
)

type RedditOptions struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	// AuthURL and APIURL default to the public Reddit endpoints.
	AuthURL string
	APIURL  string
	Backoff Backoff
}

type RedditClient struct {
	Config    *clientcredentials.Config
	BaseURL   string
	UserAgent string
	Backoff   Backoff

	mu     sync.Mutex
	client *http.Client
	ctx    context.Context
}

// userAgentTransport stamps every outgoing request, token requests included,
// with the configured User-Agent. Reddit throttles requests without one.
type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(r)
}

func NewRedditClient(ctx context.Context, opts RedditOptions) *RedditClient {
	if opts.AuthURL == "" {
		opts.AuthURL = REDDIT_AUTH_URL
	}
	if opts.APIURL == "" {
		opts.APIURL = REDDIT_API_URL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = USER_AGENT
	}
	if opts.Backoff.Retries == 0 {
		opts.Backoff = DefaultBackoff()
	}

	base := &http.Client{
		Timeout: REQUEST_TIMEOUT,
		Transport: &userAgentTransport{
			userAgent: opts.UserAgent,
			next:      http.DefaultTransport,
		},
	}

	oauthConf := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.AuthURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	rc := &RedditClient{
		Config:    oauthConf,
		BaseURL:   opts.APIURL,
		UserAgent: opts.UserAgent,
		Backoff:   opts.Backoff,
		ctx:       context.WithValue(ctx, oauth2.HTTPClient, base),
	}
	rc.client = rc.newHTTPClient()

	slog.Info("[RedditClient] Reddit client initialized",
		slog.String("api_url", rc.BaseURL))
	return rc
}

func (rc *RedditClient) newHTTPClient() *http.Client {
	client := rc.Config.Client(rc.ctx)
	client.Timeout = REQUEST_TIMEOUT
	return client
}

// RefreshClient drops the cached token so the next request fetches a new one.
func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.client = rc.newHTTPClient()
}

func (rc *RedditClient) httpClient() *http.Client {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.client
}

func (rc *RedditClient) searchURL(subreddit, query, after string, limit int) (string, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/search", rc.BaseURL, url.PathEscape(subreddit)))
	if err != nil {
		return "", fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Set("q", query)
	queryParams.Set("limit", strconv.Itoa(limit))
	queryParams.Set("type", "link")
	queryParams.Set("raw_json", "1")
	if after != "" {
		queryParams.Set("after", after)
	}
	parsedUrl.RawQuery = queryParams.Encode()
	return parsedUrl.String(), nil
}

// SearchPage fetches one listing page of search results.
func (rc *RedditClient) SearchPage(ctx context.Context, subreddit, query, after string, limit int) (*models.RedditAPIResponse, error) {
	searchURL, err := rc.searchURL(subreddit, query, after, limit)
	if err != nil {
		return nil, err
	}

	backoff := rc.Backoff.Initial
	refreshed := false
	var lastErr error

	for attempt := 1; attempt <= rc.Backoff.Retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, fmt.Errorf("[RedditClient] Failed to build request: %w", err)
		}

		resp, err := rc.httpClient().Do(req)
		if err != nil {
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) {
				slog.Error("[RedditClient] Token request rejected, check credentials",
					slog.String("error", err.Error()))
				return nil, fmt.Errorf("[RedditClient] token request failed: %w: %w", ErrUnauthorized, err)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("[RedditClient] Request failed, will retry",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			lastErr = err
		} else {
			page, retry, err := rc.handleResponse(resp, &refreshed)
			if err == nil {
				return page, nil
			}
			if !retry {
				return nil, err
			}
			lastErr = err
			if refreshed && errors.Is(err, ErrUnauthorized) {
				// retry immediately with the fresh token
				continue
			}
		}

		if attempt == rc.Backoff.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = rc.Backoff.next(backoff)
	}

	slog.Error("[RedditClient] Max retries reached, request failed",
		slog.String("error", errMsg(lastErr, nil)))
	return nil, fmt.Errorf("[RedditClient] request failed after %d attempts: %w", rc.Backoff.Retries, lastErr)
}

// handleResponse decodes a 200 response and classifies everything else. The
// returned bool reports whether the request is worth retrying.
func (rc *RedditClient) handleResponse(resp *http.Response, refreshed *bool) (*models.RedditAPIResponse, bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var page models.RedditAPIResponse
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			slog.Error("[RedditClient] Failed to parse JSON response", slog.String("error", err.Error()))
			return nil, false, fmt.Errorf("[RedditClient] failed to decode listing: %w", err)
		}
		return &page, false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		if *refreshed {
			slog.Error("[RedditClient] Unauthorized after token refresh, check credentials")
			return nil, false, fmt.Errorf("[RedditClient] %w", ErrUnauthorized)
		}
		slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
		*refreshed = true
		rc.RefreshClient()
		return nil, true, fmt.Errorf("[RedditClient] %w", ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		slog.Warn("[RedditClient] 429 Too Many Requests - Retrying with backoff")
		return nil, true, fmt.Errorf("[RedditClient] %w", ErrRateLimited)
	case resp.StatusCode >= http.StatusInternalServerError:
		_, _ = io.Copy(io.Discard, resp.Body)
		slog.Warn("[RedditClient] Server error - Retrying with backoff",
			slog.Int("status_code", resp.StatusCode))
		return nil, true, fmt.Errorf("[RedditClient] %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		slog.Error("[RedditClient] Unexpected response", slog.Int("status_code", resp.StatusCode))
		return nil, false, fmt.Errorf("[RedditClient] %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}

// SearchPosts yields up to limit search results in ranking order, following
// the listing cursor across pages. Pages are only fetched as the consumer
// asks for more posts; a fetch error is yielded once and ends the sequence.
func (rc *RedditClient) SearchPosts(ctx context.Context, subreddit, query string, limit int) iter.Seq2[models.RedditPost, error] {
	return func(yield func(models.RedditPost, error) bool) {
		after := ""
		fetched := 0
		for fetched < limit {
			page, err := rc.SearchPage(ctx, subreddit, query, after, min(limit-fetched, REDDIT_PAGE_SIZE))
			if err != nil {
				yield(models.RedditPost{}, err)
				return
			}

			slog.Debug("[RedditClient] Fetched search page",
				slog.String("query", query),
				slog.Int("posts", len(page.Data.Children)))

			for _, child := range page.Data.Children {
				fetched++
				if !yield(child.Data.ToRedditPost(query), nil) {
					return
				}
				if fetched >= limit {
					return
				}
			}

			if page.Data.After == "" || len(page.Data.Children) == 0 {
				return
			}
			after = page.Data.After
		}
	}
}
