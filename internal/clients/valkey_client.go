package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_SENTIMENT_PREFIX = "sentiment:"
	VALKEY_RETRIES          = 3
	VALKEY_RETRY_DELAY      = 250 * time.Millisecond
)

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

type ValkeyClient struct {
	Client valkey.Client
	opts   ValkeyOptions
	mu     sync.Mutex
}

func newValkey(ctx context.Context, o ValkeyOptions) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			o.Address,
		},
		Password:         o.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if o.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func NewValkeyClient(ctx context.Context, o ValkeyOptions) (*ValkeyClient, error) {
	client, err := newValkey(ctx, o)
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", o.Address))
	return &ValkeyClient{Client: client, opts: o}, nil
}

func (vc *ValkeyClient) recreateClient(ctx context.Context) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")

	client, err := newValkey(ctx, vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully connected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// Get returns the cached value for key. found is false on a miss.
func (vc *ValkeyClient) Get(ctx context.Context, key string) (value string, found bool, err error) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(VALKEY_SENTIMENT_PREFIX + key).Build()
	})
	value, err = res.ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[ValkeyClient] get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with its expiry in a single SET. PX is used so
// sub-second TTLs are kept, and anything under a millisecond is rounded up.
func (vc *ValkeyClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ttl = max(ttl, time.Millisecond)
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Set().Key(VALKEY_SENTIMENT_PREFIX + key).Value(value).Px(ttl).Build()
	})
	if err := res.Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] set %s: %w", key, err)
	}
	return nil
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < VALKEY_RETRIES; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))
		if isConnectionError(result.Error()) {
			vc.recreateClient(ctx)
		}

		time.Sleep(VALKEY_RETRY_DELAY)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
