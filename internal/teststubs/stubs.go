package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/game-catalog-service/internal/events"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
	"github.com/preston-bernstein/game-catalog-service/internal/providers/fixture"
)

// StubProvider is a test double for providers.CatalogProvider. Calls are
// delegated to Inner (the fixture catalog by default) unless an error is configured.
type StubProvider struct {
	Inner         providers.CatalogProvider
	ListErr       error
	DetailErrs    map[int]error // keyed by rawg id
	ScreenshotErr error
	Notify        chan struct{}

	ListCalls       atomic.Int32
	DetailCalls     atomic.Int32
	ScreenshotCalls atomic.Int32
	SearchCalls     atomic.Int32
}

// NewStubProvider wraps a fixture catalog of total games.
func NewStubProvider(total int) *StubProvider {
	return &StubProvider{Inner: fixture.NewWithTotal(total)}
}

func (s *StubProvider) inner() providers.CatalogProvider {
	if s.Inner == nil {
		s.Inner = fixture.New()
	}
	return s.Inner
}

// ListGames returns ListErr or the inner page, closing Notify on first call.
func (s *StubProvider) ListGames(ctx context.Context, params providers.ListParams) (providers.GamesPage, error) {
	s.ListCalls.Add(1)
	s.notify()
	if s.ListErr != nil {
		return providers.GamesPage{}, s.ListErr
	}
	return s.inner().ListGames(ctx, params)
}

// FetchGame fails for ids listed in DetailErrs.
func (s *StubProvider) FetchGame(ctx context.Context, ref providers.GameRef) (providers.GameDetail, error) {
	s.DetailCalls.Add(1)
	if err, ok := s.DetailErrs[ref.RawgID]; ok {
		return providers.GameDetail{}, err
	}
	return s.inner().FetchGame(ctx, ref)
}

func (s *StubProvider) FetchScreenshots(ctx context.Context, rawgID int) ([]providers.ScreenshotEntry, error) {
	s.ScreenshotCalls.Add(1)
	if s.ScreenshotErr != nil {
		return nil, s.ScreenshotErr
	}
	return s.inner().FetchScreenshots(ctx, rawgID)
}

// SearchGames delegates to the inner provider when it can search.
func (s *StubProvider) SearchGames(ctx context.Context, query string, page, pageSize int) (providers.GamesPage, error) {
	s.SearchCalls.Add(1)
	searcher, ok := s.inner().(providers.Searcher)
	if !ok {
		return providers.GamesPage{}, providers.ErrProviderUnavailable
	}
	return searcher.SearchGames(ctx, query, page, pageSize)
}

// Requests is the number of upstream calls made so far.
func (s *StubProvider) Requests() int {
	return int(s.ListCalls.Load() + s.DetailCalls.Load() + s.ScreenshotCalls.Load() + s.SearchCalls.Load())
}

func (s *StubProvider) notify() {
	if s.Notify == nil {
		return
	}
	select {
	case <-s.Notify:
	default:
		close(s.Notify)
	}
}

// StubPublisher records published events.
type StubPublisher struct {
	mu     sync.Mutex
	Events []events.Event
	Err    error
}

func (p *StubPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, evt)
	return nil
}

// Types returns the event types published so far, in order.
func (p *StubPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.EventType())
	}
	return out
}
