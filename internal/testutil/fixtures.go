package testutil

import (
	"time"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// SampleGame returns a minimal catalog entry keyed by rawgID.
func SampleGame(rawgID int, slug, name string) domaingames.Game {
	released := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	return domaingames.Game{
		ID:          domaingames.StorageID(rawgID, slug),
		RawgID:      rawgID,
		Slug:        slug,
		Name:        name,
		Rating:      Ptr(4.0),
		ReleaseDate: &released,
		Platforms:   []domaingames.Platform{{Name: "PC"}},
		Genres:      []domaingames.Genre{{Name: "Action"}},
	}
}

// SampleDetailedGame is SampleGame carrying detail-only fields and screenshots.
func SampleDetailedGame(rawgID int, slug, name string) domaingames.Game {
	g := SampleGame(rawgID, slug, name)
	g.Description = Ptr(name + " description.")
	g.Developer = Ptr("Studio")
	g.Publisher = Ptr("Publisher")
	g.AgeRating = Ptr("Teen")
	g.Tags = []string{"Singleplayer"}
	g.Screenshots = []domaingames.Screenshot{{GameID: g.ID, URL: "https://media.example.test/" + slug + ".jpg"}}
	return g
}
