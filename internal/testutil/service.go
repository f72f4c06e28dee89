package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/providers/fixture"
	"github.com/preston-bernstein/game-catalog-service/internal/store"
	"github.com/preston-bernstein/game-catalog-service/internal/teststubs"
)

// Catalog bundles a games service with the doubles behind it.
type Catalog struct {
	Service   *games.Service
	Store     *store.MemoryStore
	Publisher *teststubs.StubPublisher
}

// NewServiceWithGames builds a games service backed by an in-memory store preloaded with g
// and the default fixture provider.
func NewServiceWithGames(t testing.TB, g []domaingames.Game) *games.Service {
	t.Helper()
	return NewCatalog(t, g).Service
}

// NewCatalog is NewServiceWithGames exposing the store and publisher.
func NewCatalog(t testing.TB, g []domaingames.Game) Catalog {
	t.Helper()
	ms := store.NewMemoryStore()
	for _, game := range g {
		if _, err := ms.UpsertGame(context.Background(), game); err != nil {
			t.Fatalf("seed game %s: %v", game.Slug, err)
		}
	}
	pub := &teststubs.StubPublisher{}
	return Catalog{
		Service:   games.NewService(ms, fixture.New(), pub, nil, nil),
		Store:     ms,
		Publisher: pub,
	}
}
