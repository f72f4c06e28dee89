package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/game-catalog-service/internal/timeutil"
)

const listItemJSON = `{
	"id": 3498,
	"slug": "grand-theft-auto-v",
	"name": "Grand Theft Auto V",
	"released": "2013-09-17",
	"background_image": "https://media.rawg.io/gta.jpg",
	"rating": 4.47,
	"metacritic": 92,
	"platforms": [
		{"platform": {"id": 4, "name": "PC", "slug": "pc"}},
		{"platform": null},
		{"platform": {"id": 187, "name": "PlayStation 5", "slug": "playstation5"}}
	],
	"genres": [{"id": 4, "name": "Action"}, {"id": 0, "name": ""}],
	"short_screenshots": [
		{"id": 1, "image": "https://media.rawg.io/s1.jpg"},
		{"id": 2, "image": ""},
		{"id": 3}
	]
}`

const detailJSON = `{
	"id": 3498,
	"slug": "grand-theft-auto-v",
	"name": "Grand Theft Auto V",
	"released": "2013-09-17",
	"rating": 4.47,
	"metacritic": 92,
	"description": "<p>Rockstar Games went bigger</p>",
	"description_raw": "Rockstar Games went bigger",
	"website": "http://www.rockstargames.com/V/",
	"playtime": 74,
	"developers": [{"id": 1, "name": "Rockstar North"}, {"id": 2, "name": "Rockstar Games"}],
	"publishers": [{"id": 3, "name": "Rockstar Games"}],
	"esrb_rating": {"id": 4, "name": "Mature", "slug": "mature"},
	"tags": [{"id": 31, "name": "Singleplayer"}, {"id": 0, "name": ""}, {"id": 7, "name": "Multiplayer"}],
	"platforms": [{"platform": {"id": 4, "name": "PC"}}],
	"genres": [{"id": 4, "name": "Action"}]
}`

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestFromListItemLeavesDetailFieldsAbsent(t *testing.T) {
	game := FromListItem(decode[ListItem](t, listItemJSON))

	assert.Equal(t, "3498", game.ID)
	assert.Equal(t, 3498, game.RawgID)
	assert.Equal(t, "grand-theft-auto-v", game.Slug)
	assert.Nil(t, game.Description)
	assert.Nil(t, game.Developer)
	assert.Nil(t, game.Publisher)
	assert.Nil(t, game.Website)
	assert.Nil(t, game.Playtime)
	assert.Nil(t, game.AgeRating)
	assert.Empty(t, game.Tags)
	assert.False(t, game.HasDetails())

	require.NotNil(t, game.Metacritic)
	assert.Equal(t, 92, *game.Metacritic)
	require.NotNil(t, game.ReleaseDate)
	assert.Equal(t, "2013-09-17", timeutil.FormatDate(*game.ReleaseDate))
}

func TestFromListItemSkipsNullPlatformsAndEmptyEntries(t *testing.T) {
	game := FromListItem(decode[ListItem](t, listItemJSON))

	assert.Equal(t, []string{"PC", "PlayStation 5"}, game.PlatformNames())
	assert.Equal(t, []string{"Action"}, game.GenreNames())
	require.Len(t, game.Screenshots, 1)
	assert.Equal(t, "https://media.rawg.io/s1.jpg", game.Screenshots[0].URL)
	assert.Equal(t, "3498", game.Screenshots[0].GameID)
}

func TestFromListItemMalformedDateDegradesToNil(t *testing.T) {
	item := decode[ListItem](t, listItemJSON)
	item.Released = "17/09/2013"

	game := FromListItem(item)
	assert.Nil(t, game.ReleaseDate)
}

func TestFromListItemToleratesMissingKeys(t *testing.T) {
	game := FromListItem(decode[ListItem](t, `{"id": 7, "slug": "x", "name": "X"}`))

	assert.Empty(t, game.Platforms)
	assert.Empty(t, game.Genres)
	assert.Empty(t, game.Screenshots)
	assert.Nil(t, game.ReleaseDate)
	assert.Nil(t, game.Rating)
	assert.Nil(t, game.Metacritic)
	assert.Nil(t, game.BackgroundImage)
}

func TestFromDetailPopulatesDetailFields(t *testing.T) {
	game := FromDetail(decode[GameDetail](t, detailJSON))

	require.NotNil(t, game.Description)
	assert.Equal(t, "Rockstar Games went bigger", *game.Description)
	require.NotNil(t, game.Developer)
	assert.Equal(t, "Rockstar North", *game.Developer)
	require.NotNil(t, game.Publisher)
	assert.Equal(t, "Rockstar Games", *game.Publisher)
	require.NotNil(t, game.AgeRating)
	assert.Equal(t, "Mature", *game.AgeRating)
	require.NotNil(t, game.Website)
	require.NotNil(t, game.Playtime)
	assert.Equal(t, 74, *game.Playtime)
	assert.Equal(t, []string{"Singleplayer", "Multiplayer"}, game.Tags)
	assert.True(t, game.HasDetails())
}

func TestFromDetailFallsBackToHTMLDescription(t *testing.T) {
	detail := decode[GameDetail](t, detailJSON)
	detail.DescriptionRaw = ""

	game := FromDetail(detail)
	require.NotNil(t, game.Description)
	assert.Equal(t, "<p>Rockstar Games went bigger</p>", *game.Description)
}

func TestFromDetailWithoutOptionalObjects(t *testing.T) {
	game := FromDetail(decode[GameDetail](t, `{"id": 9, "slug": "nine", "name": "Nine", "esrb_rating": null, "developers": [], "publishers": []}`))

	assert.Nil(t, game.Description)
	assert.Nil(t, game.Developer)
	assert.Nil(t, game.Publisher)
	assert.Nil(t, game.AgeRating)
	assert.Nil(t, game.Website)
	assert.Empty(t, game.Tags)
}

func TestFromListItemFallsBackToSlugID(t *testing.T) {
	game := FromListItem(ListItem{Slug: "portal", Name: "Portal"})
	assert.Equal(t, "portal", game.ID)
}
