package clients

import (
	"errors"
	"time"
)

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	REQUEST_TIMEOUT = 60 * time.Second
	USER_AGENT      = "sentireport-client/1.0 (+https://github.com/spacesedan/sentireport)"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRateLimited      = errors.New("rate limited")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Backoff describes a doubling retry schedule.
type Backoff struct {
	Retries int
	Initial time.Duration
	Max     time.Duration
}

func DefaultBackoff() Backoff {
	return Backoff{Retries: MAX_RETRIES, Initial: INITIAL_BACKOFF, Max: MAX_BACKOFF}
}

func (b Backoff) next(current time.Duration) time.Duration {
	current *= 2
	if current > b.Max {
		current = b.Max
	}
	return current
}

// ErrDocumentFailed is returned when the service rejects an individual
// document inside an otherwise successful batch.
var ErrDocumentFailed = errors.New("document analysis failed")
