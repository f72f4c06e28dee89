package games

import (
	"context"
	"testing"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/store"
	"github.com/preston-bernstein/game-catalog-service/internal/teststubs"
)

type harness struct {
	svc       *Service
	repo      *store.MemoryStore
	provider  *teststubs.StubProvider
	publisher *teststubs.StubPublisher
	recorder  *metrics.Recorder
}

func newHarness(t *testing.T, total int) *harness {
	t.Helper()
	h := &harness{
		repo:      store.NewMemoryStore(),
		provider:  teststubs.NewStubProvider(total),
		publisher: &teststubs.StubPublisher{},
		recorder:  metrics.NewRecorder(),
	}
	h.svc = NewService(h.repo, h.provider, h.publisher, nil, h.recorder)
	return h
}

// failingUpsertRepo fails every upsert after the first n.
type failingUpsertRepo struct {
	*store.MemoryStore
	allow int
	err   error
}

func (r *failingUpsertRepo) UpsertGame(ctx context.Context, g domaingames.Game) (domaingames.Game, error) {
	if r.allow <= 0 {
		return domaingames.Game{}, r.err
	}
	r.allow--
	return r.MemoryStore.UpsertGame(ctx, g)
}

func batch(startPage, pages, pageSize int) BatchRequest {
	return BatchRequest{StartPage: startPage, Pages: pages, PageSize: pageSize}
}
