package providers

import (
	"strings"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/timeutil"
)

// FromListItem maps a lightweight listing entry. Detail-only fields stay nil.
func FromListItem(item ListItem) domaingames.Game {
	id := domaingames.StorageID(item.ID, item.Slug)
	return domaingames.Game{
		ID:              id,
		RawgID:          item.ID,
		Slug:            item.Slug,
		Name:            item.Name,
		Metacritic:      item.Metacritic,
		Rating:          item.Rating,
		ReleaseDate:     timeutil.ParseOptionalDate(item.Released),
		BackgroundImage: nonEmpty(item.BackgroundImage),
		Platforms:       mapPlatforms(item.Platforms),
		Genres:          mapGenres(item.Genres),
		Tags:            []string{},
		Screenshots:     FromScreenshots(id, item.ShortScreenshots),
	}
}

// FromDetail maps the full single-game payload.
func FromDetail(detail GameDetail) domaingames.Game {
	game := FromListItem(detail.ListItem)
	game.Description = firstNonEmpty(detail.DescriptionRaw, detail.Description)
	game.Developer = firstName(detail.Developers)
	game.Publisher = firstName(detail.Publishers)
	game.Website = nonEmptyString(detail.Website)
	game.Playtime = detail.Playtime
	if detail.ESRBRating != nil {
		game.AgeRating = nonEmptyString(detail.ESRBRating.Name)
	}
	game.Tags = mapTags(detail.Tags)
	return game
}

func mapPlatforms(entries []PlatformEntry) []domaingames.Platform {
	out := make([]domaingames.Platform, 0, len(entries))
	for _, entry := range entries {
		if entry.Platform == nil || entry.Platform.Name == "" {
			continue
		}
		out = append(out, domaingames.Platform{ID: entry.Platform.ID, Name: entry.Platform.Name})
	}
	return out
}

func mapGenres(refs []NamedRef) []domaingames.Genre {
	out := make([]domaingames.Genre, 0, len(refs))
	for _, ref := range refs {
		if ref.Name == "" {
			continue
		}
		out = append(out, domaingames.Genre{ID: ref.ID, Name: ref.Name})
	}
	return out
}

func mapTags(refs []NamedRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if name := strings.TrimSpace(ref.Name); name != "" {
			out = append(out, ref.Name)
		}
	}
	return out
}

// FromScreenshots keeps entries with an image, attributed to gameID.
func FromScreenshots(gameID string, entries []ScreenshotEntry) []domaingames.Screenshot {
	out := make([]domaingames.Screenshot, 0, len(entries))
	for _, entry := range entries {
		if entry.Image == "" {
			continue
		}
		out = append(out, domaingames.Screenshot{ID: entry.ID, GameID: gameID, URL: entry.Image})
	}
	return out
}

func firstName(refs []NamedRef) *string {
	if len(refs) == 0 {
		return nil
	}
	return nonEmptyString(refs[0].Name)
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			return &v
		}
	}
	return nil
}

func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func nonEmptyString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
