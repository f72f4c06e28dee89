package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// SyncRun summarizes one batch or single-game sync for metrics purposes.
type SyncRun struct {
	Kind          string
	TotalSynced   int
	NewGames      int
	UpdatedGames  int
	DetailsLoaded int
	DetailErrors  int
	RequestsUsed  int
	Duration      time.Duration
	Err           error
}

// SyncTotals are cumulative counters across all recorded sync runs.
type SyncTotals struct {
	Runs          int
	Failures      int
	TotalSynced   int
	NewGames      int
	UpdatedGames  int
	DetailsLoaded int
	DetailErrors  int
	RequestsUsed  int
}

type eventKey struct {
	direction string
	eventType string
	outcome   string
}

// Recorder captures lightweight, in-memory metrics and mirrors them to OpenTelemetry when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	sync   SyncTotals
	events map[eventKey]int
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:  make(map[string]*providerStats),
		events: make(map[eventKey]int),
		otel:   otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordSync accumulates the outcome of a sync run.
func (r *Recorder) RecordSync(run SyncRun) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.sync.Runs++
	if run.Err != nil {
		r.sync.Failures++
	}
	r.sync.TotalSynced += run.TotalSynced
	r.sync.NewGames += run.NewGames
	r.sync.UpdatedGames += run.UpdatedGames
	r.sync.DetailsLoaded += run.DetailsLoaded
	r.sync.DetailErrors += run.DetailErrors
	r.sync.RequestsUsed += run.RequestsUsed
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSync(run)
	}
}

// RecordEvent counts a published or consumed event by outcome (e.g. "ok", "error", "dead_lettered").
func (r *Recorder) RecordEvent(direction, eventType, outcome string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.events[eventKey{direction: direction, eventType: eventType, outcome: outcome}]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordEvent(direction, eventType, outcome)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// SyncTotals returns cumulative sync counters.
func (r *Recorder) SyncTotals() SyncTotals {
	if r == nil {
		return SyncTotals{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sync
}

// EventCount returns how many events matched the direction, type and outcome.
func (r *Recorder) EventCount(direction, eventType, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[eventKey{direction: direction, eventType: eventType, outcome: outcome}]
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks scheduled sync cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
