package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/events"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/store"
)

type recordingSender struct {
	keys   []string
	closed bool
}

func (s *recordingSender) Send(_ context.Context, msg events.Message) error {
	s.keys = append(s.keys, msg.RoutingKey)
	return nil
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

func TestOpenCatalogSyncsAndPublishes(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{}
	recorder := metrics.NewRecorder()
	publisher := events.NewPublisher(sender, "game-service", nil, recorder)

	catalog, err := OpenCatalog(ctx, fixtureConfig(), publisher, nil, recorder)
	require.NoError(t, err)

	game, err := catalog.Service.SyncGame(ctx, games.SyncRequest{RawgSlug: "fixture-game-2"})
	require.NoError(t, err)
	assert.Equal(t, "fixture-game-2", game.Slug)
	assert.Equal(t, []string{"games.game_synced"}, sender.keys)

	stored, err := catalog.Store.GetBySlug(ctx, "fixture-game-2")
	require.NoError(t, err)
	assert.Equal(t, game.ID, stored.ID)

	require.NoError(t, catalog.Close())
	assert.True(t, sender.closed, "publisher sender should be closed")
}

func TestCatalogCloseNil(t *testing.T) {
	var catalog *Catalog
	assert.NoError(t, catalog.Close())
}

func TestMigrateCreatesSchemaOnDisk(t *testing.T) {
	ctx := context.Background()
	cfg := fixtureConfig()
	cfg.Database.URL = "sqlite:///" + filepath.Join(t.TempDir(), "games.db")
	cfg.Database.AutoMigrate = false

	require.NoError(t, Migrate(ctx, cfg, nil))

	db, err := store.Open(storeConfig(cfg), nil)
	require.NoError(t, err)
	s := store.NewGormStore(db)
	defer s.Close()

	for _, table := range []string{"games", "game_platforms", "game_genres", "game_tags", "game_screenshots"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
