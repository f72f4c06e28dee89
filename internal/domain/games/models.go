package games

import (
	"strconv"
	"time"
)

// Platform is a (position, name) pair. Name is the identity within a game.
type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genre is a (position, name) pair. Name is the identity within a game.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Screenshot belongs to a single game.
type Screenshot struct {
	ID     int    `json:"id"`
	GameID string `json:"game_id"`
	URL    string `json:"url"`
}

// Game is the catalog aggregate root. Child collections are replaced wholesale on upsert.
type Game struct {
	ID              string
	RawgID          int
	Slug            string
	Name            string
	Description     *string
	Metacritic      *int
	Rating          *float64
	ReleaseDate     *time.Time
	Developer       *string
	Publisher       *string
	BackgroundImage *string
	Website         *string
	Playtime        *int
	AgeRating       *string
	Platforms       []Platform
	Genres          []Genre
	Tags            []string
	Screenshots     []Screenshot
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasDetails reports whether the game was built from a detail payload.
// Lightweight list payloads never carry a description.
func (g Game) HasDetails() bool {
	return g.Description != nil
}

// PlatformNames returns platform names in stored order.
func (g Game) PlatformNames() []string {
	names := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		names = append(names, p.Name)
	}
	return names
}

// GenreNames returns genre names in stored order.
func (g Game) GenreNames() []string {
	names := make([]string, 0, len(g.Genres))
	for _, gn := range g.Genres {
		names = append(names, gn.Name)
	}
	return names
}

// ScreenshotURLs returns screenshot URLs in stored order.
func (g Game) ScreenshotURLs() []string {
	urls := make([]string, 0, len(g.Screenshots))
	for _, s := range g.Screenshots {
		urls = append(urls, s.URL)
	}
	return urls
}

// WithID returns a copy of the game using id as its storage identifier,
// re-pointing screenshots at the new id.
func (g Game) WithID(id string) Game {
	g.ID = id
	if len(g.Screenshots) > 0 {
		shots := make([]Screenshot, len(g.Screenshots))
		for i, s := range g.Screenshots {
			s.GameID = id
			shots[i] = s
		}
		g.Screenshots = shots
	}
	return g
}

// StorageID derives the internal identifier: the external id when set, otherwise the slug.
func StorageID(rawgID int, slug string) string {
	if rawgID != 0 {
		return strconv.Itoa(rawgID)
	}
	return slug
}

// ListFilter narrows catalog queries. Zero values mean "no constraint".
type ListFilter struct {
	Search     string
	Platform   string
	Genre      string
	AgeRating  string
	YearFrom   *int
	YearTo     *int
	RatingFrom *float64
	RatingTo   *float64
}
