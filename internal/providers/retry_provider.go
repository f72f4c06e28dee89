package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxRetryAfter        = 30 * time.Second
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a CatalogProvider with retry/backoff behavior and per-attempt metrics.
type retryingProvider struct {
	inner       CatalogProvider
	logger      *slog.Logger
	metrics     *metrics.Recorder
	name        string
	maxAttempts int
	backoffFn   backoffFunc
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner CatalogProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) CatalogProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		metrics:     recorder,
		name:        name,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			base := time.Duration(attempt) * backoff
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			return base + jitter
		},
		sleep: sleepContext,
	}
}

func (r *retryingProvider) FetchGame(ctx context.Context, ref GameRef) (GameDetail, error) {
	return withRetry(ctx, r, "fetch_game", func(ctx context.Context) (GameDetail, error) {
		return r.inner.FetchGame(ctx, ref)
	})
}

func (r *retryingProvider) FetchScreenshots(ctx context.Context, rawgID int) ([]ScreenshotEntry, error) {
	return withRetry(ctx, r, "fetch_screenshots", func(ctx context.Context) ([]ScreenshotEntry, error) {
		return r.inner.FetchScreenshots(ctx, rawgID)
	})
}

func (r *retryingProvider) ListGames(ctx context.Context, params ListParams) (GamesPage, error) {
	return withRetry(ctx, r, "list_games", func(ctx context.Context) (GamesPage, error) {
		return r.inner.ListGames(ctx, params)
	})
}

// SearchGames delegates when the inner provider supports search.
func (r *retryingProvider) SearchGames(ctx context.Context, query string, page, pageSize int) (GamesPage, error) {
	searcher, ok := r.inner.(Searcher)
	if !ok {
		return GamesPage{}, ErrProviderUnavailable
	}
	return withRetry(ctx, r, "search_games", func(ctx context.Context) (GamesPage, error) {
		return searcher.SearchGames(ctx, query, page, pageSize)
	})
}

// Close releases resources held by the inner provider.
func (r *retryingProvider) Close() {
	if c, ok := r.inner.(interface{ Close() }); ok {
		c.Close()
	}
}

func withRetry[T any](ctx context.Context, r *retryingProvider, op string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		result, err := call(ctx)
		r.metrics.RecordProviderAttempt(r.name, time.Since(start), err)
		if err == nil {
			return result, nil
		}
		lastErr = err

		delay := r.backoffFn(attempt)
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.name, rl.RetryAfter)
			if rl.RetryAfter > delay {
				delay = min(rl.RetryAfter, maxRetryAfter)
			}
		}

		if attempt == r.maxAttempts || !retryable(err) {
			break
		}

		r.logWarn(ctx, "provider call retry",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Any(logging.FieldError, err),
		)

		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}

	r.logWarn(ctx, "provider call failed", slog.String("op", op), slog.Any(logging.FieldError, lastErr))
	return zero, lastErr
}

// retryable is true for rate limits, 5xx responses, and transport failures.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	if up, ok := AsUpstreamError(err); ok {
		return up.Retryable()
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	providerLog(ctx, r.logger, slog.LevelWarn, r.name, msg, args...)
}
