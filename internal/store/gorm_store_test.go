package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := Open(Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormStoreUpsertRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	in := sampleGame(3498, "grand-theft-auto-v", "Grand Theft Auto V")
	in.Description = ptr("Rockstar's open world.")
	in.ReleaseDate = date(2013, 9, 17)
	in.Platforms = []domaingames.Platform{{ID: 4, Name: "PC"}, {ID: 187, Name: "PlayStation 5"}}
	in.Screenshots = []domaingames.Screenshot{{URL: "https://media.rawg.io/1.jpg"}}

	saved, err := s.UpsertGame(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "3498", saved.ID)
	assert.Equal(t, "Rockstar's open world.", *saved.Description)
	assert.Equal(t, "2013-09-17", saved.ReleaseDate.Format("2006-01-02"))
	assert.Equal(t, []domaingames.Platform{{ID: 1, Name: "PC"}, {ID: 2, Name: "PlayStation 5"}}, saved.Platforms)
	assert.Equal(t, []string{"singleplayer"}, saved.Tags)
	require.Len(t, saved.Screenshots, 1)
	assert.Equal(t, "3498", saved.Screenshots[0].GameID)

	bySlug, err := s.GetBySlug(ctx, "grand-theft-auto-v")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, bySlug.ID)
}

func TestGormStoreUpsertIsIdempotentByExternalID(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	first := sampleGame(42, "portal", "Portal")
	first.ID = "portal"
	created, err := s.UpsertGame(ctx, first)
	require.NoError(t, err)

	second := sampleGame(42, "portal", "Portal Remastered")
	second.Genres = []domaingames.Genre{{Name: "Puzzle"}}
	second.Tags = nil
	updated, err := s.UpsertGame(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, "portal", updated.ID)
	assert.Equal(t, "Portal Remastered", updated.Name)
	assert.Equal(t, []string{"Puzzle"}, updated.GenreNames())
	assert.Empty(t, updated.Tags)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	total, err := s.CountGames(ctx, domaingames.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestGormStoreUpsertRequiresIdentity(t *testing.T) {
	s := newSQLiteStore(t)
	_, err := s.UpsertGame(context.Background(), domaingames.Game{Name: "anonymous"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGormStoreListFiltersAndPaging(t *testing.T) {
	s := newSQLiteStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	all, err := s.ListGames(ctx, domaingames.ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Celeste", "Hades", "Portal 2"}, names(all))

	page, err := s.ListGames(ctx, domaingames.ListFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hades"}, names(page))

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ListGames(ctx, tc.filter, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))

			total, err := s.CountGames(ctx, tc.filter)
			require.NoError(t, err)
			assert.EqualValues(t, len(tc.want), total)
		})
	}
}

func TestGormStoreLookups(t *testing.T) {
	s := newSQLiteStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	genres, err := s.ListGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Platformer", "Puzzle"}, genres)

	platforms, err := s.ListPlatforms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nintendo Switch", "PC"}, platforms)

	ratings, err := s.ListAgeRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Everyone 10+", "Teen"}, ratings)
}

func TestGormStoreDeleteRemovesChildren(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	g := sampleGame(7, "celeste", "Celeste")
	g.Screenshots = []domaingames.Screenshot{{URL: "https://img/1.jpg"}}
	_, err := s.UpsertGame(ctx, g)
	require.NoError(t, err)

	require.NoError(t, s.DeleteGame(ctx, "7"))
	assert.ErrorIs(t, s.DeleteGame(ctx, "7"), domain.ErrNotFound)

	var remaining int64
	require.NoError(t, s.DB().Model(&PlatformModel{}).Where("game_id = ?", "7").Count(&remaining).Error)
	assert.Zero(t, remaining)

	shots, err := s.ListScreenshots(ctx, "7")
	require.NoError(t, err)
	assert.Empty(t, shots)
}

func TestGormStoreReplaceScreenshots(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	g := sampleGame(7, "celeste", "Celeste")
	g.Screenshots = []domaingames.Screenshot{{URL: "https://img/old.jpg"}}
	_, err := s.UpsertGame(ctx, g)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceScreenshots(ctx, "7", []domaingames.Screenshot{{URL: "https://img/a.jpg"}, {URL: "https://img/b.jpg"}}))

	shots, err := s.ListScreenshots(ctx, "7")
	require.NoError(t, err)
	urls := make([]string, 0, len(shots))
	for _, shot := range shots {
		urls = append(urls, shot.URL)
	}
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, urls)
}

func TestGormStoreGetNotFound(t *testing.T) {
	s := newSQLiteStore(t)
	_, err := s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGormStorePing(t *testing.T) {
	s := newSQLiteStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestGormStoreUpsertRetriesAfterDuplicateKey(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	var creates int
	var collided bool
	db := s.DB()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:rival_insert", func(tx *gorm.DB) {
		if tx.Statement.Table != "games" {
			return
		}
		creates++
		if creates > 1 {
			return
		}
		now := time.Now()
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO games (id, rawg_id, slug, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			"rival", 42, "portal-rival", "Portal", now, now)
	}))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:observe", func(tx *gorm.DB) {
		if tx.Statement.Table == "games" && errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			collided = true
		}
	}))

	saved, err := s.UpsertGame(ctx, sampleGame(42, "portal", "Portal Remastered"))
	require.NoError(t, err)

	assert.True(t, collided, "first insert should hit the rawg_id unique index")
	assert.Equal(t, 2, creates)
	assert.Equal(t, "42", saved.ID)
	assert.Equal(t, "Portal Remastered", saved.Name)

	total, err := s.CountGames(ctx, domaingames.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestGormStoreUpsertRetryUpdatesConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	db, err := Open(Config{DSN: "sqlite:///" + filepath.Join(t.TempDir(), "games.db"), MaxOpenConns: 2}, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })

	// 0: fail the first insert, 1: commit a rival before the retry's lookup, 2: done
	state := 0
	var rivalErr error
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:conflict", func(tx *gorm.DB) {
		if tx.Statement.Table == "games" && state == 0 {
			state = 1
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:rival", func(tx *gorm.DB) {
		if tx.Statement.Table != "games" || state != 1 {
			return
		}
		state = 2
		rival := sampleGame(42, "portal", "Portal")
		rival.ID = "rival"
		_, rivalErr = s.UpsertGame(ctx, rival)
	}))

	saved, err := s.UpsertGame(ctx, sampleGame(42, "portal", "Portal Remastered"))
	require.NoError(t, err)
	require.NoError(t, rivalErr)

	assert.Equal(t, 2, state)
	assert.Equal(t, "rival", saved.ID)
	assert.Equal(t, "Portal Remastered", saved.Name)

	total, err := s.CountGames(ctx, domaingames.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
