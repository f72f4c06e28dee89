package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
)

type catalogStore interface {
	UpsertGame(context.Context, domaingames.Game) (domaingames.Game, error)
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleGame(rawgID int, slug, name string) domaingames.Game {
	return domaingames.Game{
		RawgID:    rawgID,
		Slug:      slug,
		Name:      name,
		Rating:    ptr(4.0),
		Platforms: []domaingames.Platform{{Name: "PC"}},
		Genres:    []domaingames.Genre{{Name: "Action"}},
		Tags:      []string{"singleplayer"},
	}
}

// seedCatalog stores three games with distinct platforms, genres, years and ratings.
func seedCatalog(t *testing.T, s catalogStore) {
	t.Helper()
	ctx := context.Background()

	portal := sampleGame(4200, "portal-2", "Portal 2")
	portal.Rating = ptr(4.6)
	portal.ReleaseDate = date(2011, time.April, 18)
	portal.AgeRating = ptr("Everyone 10+")
	portal.Genres = []domaingames.Genre{{Name: "Puzzle"}, {Name: "Action"}}

	hades := sampleGame(274755, "hades", "Hades")
	hades.Rating = ptr(4.4)
	hades.ReleaseDate = date(2020, time.September, 17)
	hades.AgeRating = ptr("Teen")
	hades.Platforms = []domaingames.Platform{{Name: "PC"}, {Name: "Nintendo Switch"}}

	celeste := sampleGame(28154, "celeste", "Celeste")
	celeste.Rating = ptr(4.1)
	celeste.ReleaseDate = date(2018, time.January, 25)
	celeste.Genres = []domaingames.Genre{{Name: "Platformer"}}

	for _, g := range []domaingames.Game{portal, hades, celeste} {
		_, err := s.UpsertGame(ctx, g)
		require.NoError(t, err)
	}
}

type filterCase struct {
	name   string
	filter domaingames.ListFilter
	want   []string
}

func filterCases() []filterCase {
	return []filterCase{
		{"search is case insensitive", domaingames.ListFilter{Search: "PORTAL"}, []string{"Portal 2"}},
		{"platform substring", domaingames.ListFilter{Platform: "switch"}, []string{"Hades"}},
		{"genre substring", domaingames.ListFilter{Genre: "puzz"}, []string{"Portal 2"}},
		{"age rating", domaingames.ListFilter{AgeRating: "teen"}, []string{"Hades"}},
		{"year from inclusive", domaingames.ListFilter{YearFrom: ptr(2018)}, []string{"Celeste", "Hades"}},
		{"year to inclusive", domaingames.ListFilter{YearTo: ptr(2018)}, []string{"Celeste", "Portal 2"}},
		{"rating range inclusive", domaingames.ListFilter{RatingFrom: ptr(4.1), RatingTo: ptr(4.4)}, []string{"Celeste", "Hades"}},
		{"no match", domaingames.ListFilter{Search: "zelda"}, []string{}},
	}
}

func names(games []domaingames.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Name)
	}
	return out
}
