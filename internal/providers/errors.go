package providers

import (
	"errors"
	"fmt"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
)

// ErrProviderUnavailable is returned when a decorator has no inner provider.
var ErrProviderUnavailable = fmt.Errorf("%w: provider unavailable", domain.ErrUpstream)

// UpstreamError captures a non-success response from an upstream provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is lets callers match upstream failures against domain.ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == domain.ErrUpstream
}

// Retryable reports whether the status warrants another attempt.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode >= 500
}

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// Is lets callers match rate limits against domain.ErrUpstream.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrUpstream
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// AsUpstreamError attempts to unwrap an error into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}
