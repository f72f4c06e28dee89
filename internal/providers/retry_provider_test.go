package providers

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
)

func noSleep(rp CatalogProvider) *retryingProvider {
	r := rp.(*retryingProvider)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	return r
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fp := &fakeProvider{failures: 2, err: errors.New("boom")}
	rec := metrics.NewRecorder()
	rp := noSleep(NewRetryingProvider(fp, slog.Default(), rec, "flakey", 3, time.Millisecond))

	page, err := rp.ListGames(context.Background(), ListParams{Page: 4})
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != 4 {
		t.Fatalf("unexpected page %+v", page)
	}
	if fp.calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls.Load())
	}
	if rec.ProviderCalls("flakey") != 3 || rec.ProviderErrors("flakey") != 2 {
		t.Fatalf("unexpected metrics %+v", rec.Snapshot("flakey"))
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &fakeProvider{failures: 5, err: errors.New("boom")}
	rp := noSleep(NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 2, time.Millisecond))

	if _, err := rp.FetchGame(context.Background(), GameRef{RawgID: 1}); err == nil {
		t.Fatal("expected error after retries")
	}
	if fp.calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls.Load())
	}
}

func TestRetryingProviderDoesNotRetryClientErrors(t *testing.T) {
	fp := &fakeProvider{failures: 5, err: &UpstreamError{Provider: "rawg", StatusCode: 404}}
	rp := noSleep(NewRetryingProvider(fp, nil, nil, "rawg", 3, time.Millisecond))

	_, err := rp.FetchGame(context.Background(), GameRef{Slug: "missing"})
	if _, ok := AsUpstreamError(err); !ok {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if fp.calls.Load() != 1 {
		t.Fatalf("expected a single attempt for 4xx, got %d", fp.calls.Load())
	}
}

func TestRetryingProviderRetriesServerErrors(t *testing.T) {
	fp := &fakeProvider{failures: 1, err: &UpstreamError{Provider: "rawg", StatusCode: 503}}
	rp := noSleep(NewRetryingProvider(fp, nil, nil, "rawg", 3, time.Millisecond))

	if _, err := rp.FetchScreenshots(context.Background(), 1); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if fp.calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls.Load())
	}
}

func TestRetryingProviderHonorsRetryAfter(t *testing.T) {
	fp := &fakeProvider{failures: 1, err: &RateLimitError{Provider: "rawg", StatusCode: 429, RetryAfter: 2 * time.Second}}
	rec := metrics.NewRecorder()
	rp := NewRetryingProvider(fp, nil, rec, "rawg", 2, time.Millisecond).(*retryingProvider)

	var slept time.Duration
	rp.sleep = func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	if _, err := rp.ListGames(context.Background(), ListParams{Page: 1}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("expected retry-after delay, got %s", slept)
	}
	if rec.RateLimitHits("rawg") != 1 || rec.LastRetryAfter("rawg") != 2*time.Second {
		t.Fatalf("unexpected rate limit metrics %+v", rec.Snapshot("rawg"))
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &fakeProvider{failures: 5, err: errors.New("boom")}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rp.ListGames(ctx, ListParams{Page: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestRetryingProviderUsesCustomBackoff(t *testing.T) {
	fp := &fakeProvider{failures: 1, err: errors.New("boom")}
	rp := noSleep(NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 2, time.Hour))

	calls := 0
	rp.backoffFn = func(attempt int) time.Duration {
		calls++
		return 0
	}

	if _, err := rp.ListGames(context.Background(), ListParams{}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected backoff to be called once, got %d", calls)
	}
}

func TestRetryingProviderSearchRequiresSearcher(t *testing.T) {
	rp := NewRetryingProvider(&fakeProvider{}, nil, nil, "fake", 1, time.Millisecond).(*retryingProvider)
	if _, err := rp.SearchGames(context.Background(), "portal", 1, 10); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
