package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
)

func TestMemoryStoreUpsertAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	saved, err := s.UpsertGame(ctx, sampleGame(3498, "grand-theft-auto-v", "Grand Theft Auto V"))
	require.NoError(t, err)
	assert.Equal(t, "3498", saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	byID, err := s.GetByID(ctx, "3498")
	require.NoError(t, err)
	assert.Equal(t, "Grand Theft Auto V", byID.Name)

	bySlug, err := s.GetBySlug(ctx, "grand-theft-auto-v")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, bySlug.ID)
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreUpsertKeepsExistingID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := sampleGame(42, "portal", "Portal")
	first.ID = "portal"
	_, err := s.UpsertGame(ctx, first)
	require.NoError(t, err)

	second := sampleGame(42, "portal", "Portal (Remastered)")
	second.Platforms = []domaingames.Platform{{Name: "Linux"}}
	saved, err := s.UpsertGame(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, "portal", saved.ID)
	assert.Equal(t, "Portal (Remastered)", saved.Name)
	assert.Equal(t, []string{"Linux"}, saved.PlatformNames())

	total, err := s.CountGames(ctx, domaingames.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestMemoryStoreRejectsSlugOwnedByOtherGame(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.UpsertGame(ctx, sampleGame(1, "dup", "One"))
	require.NoError(t, err)
	_, err = s.UpsertGame(ctx, sampleGame(2, "dup", "Two"))
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestMemoryStoreListFiltersAndPaging(t *testing.T) {
	s := NewMemoryStore()
	seedCatalog(t, s)
	ctx := context.Background()

	all, err := s.ListGames(ctx, domaingames.ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Celeste", "Hades", "Portal 2"}, names(all))

	page, err := s.ListGames(ctx, domaingames.ListFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hades"}, names(page))

	beyond, err := s.ListGames(ctx, domaingames.ListFilter{}, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ListGames(ctx, tc.filter, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestMemoryStoreLookups(t *testing.T) {
	s := NewMemoryStore()
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

func TestMemoryStoreScreenshotsAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.UpsertGame(ctx, sampleGame(7, "celeste", "Celeste"))
	require.NoError(t, err)

	require.NoError(t, s.ReplaceScreenshots(ctx, "7", []domaingames.Screenshot{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}}))
	shots, err := s.ListScreenshots(ctx, "7")
	require.NoError(t, err)
	require.Len(t, shots, 2)
	assert.Equal(t, "7", shots[0].GameID)

	require.NoError(t, s.DeleteGame(ctx, "7"))
	assert.ErrorIs(t, s.DeleteGame(ctx, "7"), domain.ErrNotFound)
	shots, err = s.ListScreenshots(ctx, "7")
	require.NoError(t, err)
	assert.Empty(t, shots)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.UpsertGame(ctx, sampleGame(7, "celeste", "Celeste"))
	require.NoError(t, err)

	g, err := s.GetByID(ctx, "7")
	require.NoError(t, err)
	g.Platforms[0].Name = "mutated"

	again, err := s.GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "PC", again.Platforms[0].Name)
}
