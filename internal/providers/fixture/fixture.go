package fixture

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
)

const (
	providerName = "fixture"
	defaultTotal = 120
	baseRawgID   = 1000
)

var (
	platformCycle = []providers.NamedRef{
		{ID: 4, Name: "PC", Slug: "pc"},
		{ID: 187, Name: "PlayStation 5", Slug: "playstation5"},
		{ID: 186, Name: "Xbox Series S/X", Slug: "xbox-series-x"},
		{ID: 7, Name: "Nintendo Switch", Slug: "nintendo-switch"},
	}
	genreCycle = []providers.NamedRef{
		{ID: 4, Name: "Action", Slug: "action"},
		{ID: 5, Name: "RPG", Slug: "role-playing-games-rpg"},
		{ID: 10, Name: "Strategy", Slug: "strategy"},
		{ID: 51, Name: "Indie", Slug: "indie"},
	}
	esrbCycle = []string{"Everyone", "Teen", "Mature"}
)

// Provider serves a deterministic, offline catalog for local runs and tests.
type Provider struct {
	total int
}

// New creates a fixture provider with the default catalog size.
func New() *Provider {
	return NewWithTotal(defaultTotal)
}

// NewWithTotal creates a fixture provider exposing total distinct games.
func NewWithTotal(total int) *Provider {
	if total < 0 {
		total = 0
	}
	return &Provider{total: total}
}

// ListGames returns lightweight entries ordered by descending rating.
func (p *Provider) ListGames(ctx context.Context, params providers.ListParams) (providers.GamesPage, error) {
	if err := ctx.Err(); err != nil {
		return providers.GamesPage{}, err
	}
	page := max(params.Page, 1)
	size := params.PageSize
	if size <= 0 || size > providers.MaxPageSize {
		size = providers.MaxPageSize
	}

	start := (page - 1) * size
	results := make([]providers.ListItem, 0, size)
	for i := start; i < start+size && i < p.total; i++ {
		results = append(results, listItem(i))
	}

	out := providers.GamesPage{Count: p.total, Results: results}
	if start+size < p.total {
		next := fmt.Sprintf("fixture://games?page=%d", page+1)
		out.Next = &next
	}
	return out, nil
}

// SearchGames matches names case-insensitively.
func (p *Provider) SearchGames(ctx context.Context, query string, page, pageSize int) (providers.GamesPage, error) {
	if err := ctx.Err(); err != nil {
		return providers.GamesPage{}, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	var matches []providers.ListItem
	for i := 0; i < p.total; i++ {
		item := listItem(i)
		if strings.Contains(strings.ToLower(item.Name), query) {
			matches = append(matches, item)
		}
	}
	page = max(page, 1)
	if pageSize <= 0 {
		pageSize = 20
	}
	start := min((page-1)*pageSize, len(matches))
	end := min(start+pageSize, len(matches))
	return providers.GamesPage{Count: len(matches), Results: matches[start:end]}, nil
}

// FetchGame returns the detail payload for a known slug or id.
func (p *Provider) FetchGame(ctx context.Context, ref providers.GameRef) (providers.GameDetail, error) {
	if err := ctx.Err(); err != nil {
		return providers.GameDetail{}, err
	}
	if ref.IsZero() {
		return providers.GameDetail{}, fmt.Errorf("%w: slug or rawg_id is required", domain.ErrInvalidArgument)
	}
	idx, ok := p.resolve(ref)
	if !ok {
		return providers.GameDetail{}, &providers.UpstreamError{Provider: providerName, StatusCode: http.StatusNotFound, Body: "Not found."}
	}
	return detail(idx), nil
}

// FetchScreenshots returns two screenshots per known game.
func (p *Provider) FetchScreenshots(ctx context.Context, rawgID int) ([]providers.ScreenshotEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := rawgID - baseRawgID
	if idx < 0 || idx >= p.total {
		return nil, &providers.UpstreamError{Provider: providerName, StatusCode: http.StatusNotFound, Body: "Not found."}
	}
	return screenshots(idx), nil
}

func (p *Provider) resolve(ref providers.GameRef) (int, bool) {
	if ref.Slug != "" {
		raw, ok := strings.CutPrefix(ref.Slug, "fixture-game-")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > p.total {
			return 0, false
		}
		return n - 1, true
	}
	idx := ref.RawgID - baseRawgID
	return idx, idx >= 0 && idx < p.total
}

func listItem(idx int) providers.ListItem {
	n := idx + 1
	rating := 5.0 - float64(idx%500)*0.01
	image := fmt.Sprintf("https://media.example.test/games/%d/background.jpg", n)
	return providers.ListItem{
		ID:              baseRawgID + idx,
		Slug:            fmt.Sprintf("fixture-game-%d", n),
		Name:            fmt.Sprintf("Fixture Game %03d", n),
		Released:        fmt.Sprintf("%d-%02d-%02d", 2000+idx%25, idx%12+1, idx%28+1),
		BackgroundImage: &image,
		Rating:          &rating,
		Platforms: []providers.PlatformEntry{
			{Platform: &platformCycle[idx%len(platformCycle)]},
			{Platform: &platformCycle[(idx+1)%len(platformCycle)]},
		},
		Genres:           []providers.NamedRef{genreCycle[idx%len(genreCycle)]},
		ShortScreenshots: screenshots(idx)[:1],
	}
}

func detail(idx int) providers.GameDetail {
	n := idx + 1
	metacritic := 60 + idx%40
	playtime := 5 + idx%50
	esrb := providers.NamedRef{ID: idx%len(esrbCycle) + 1, Name: esrbCycle[idx%len(esrbCycle)]}
	return providers.GameDetail{
		ListItem:       withMetacritic(listItem(idx), metacritic),
		Description:    fmt.Sprintf("<p>Fixture Game %03d description.</p>", n),
		DescriptionRaw: fmt.Sprintf("Fixture Game %03d description.", n),
		Website:        fmt.Sprintf("https://fixture.example.test/%d", n),
		Playtime:       &playtime,
		Developers:     []providers.NamedRef{{ID: n, Name: fmt.Sprintf("Studio %d", n%7)}},
		Publishers:     []providers.NamedRef{{ID: n, Name: fmt.Sprintf("Publisher %d", n%5)}},
		ESRBRating:     &esrb,
		Tags:           []providers.NamedRef{{ID: 31, Name: "Singleplayer"}, {ID: 7, Name: "Multiplayer"}},
	}
}

func withMetacritic(item providers.ListItem, score int) providers.ListItem {
	item.Metacritic = &score
	return item
}

func screenshots(idx int) []providers.ScreenshotEntry {
	n := idx + 1
	return []providers.ScreenshotEntry{
		{ID: n*10 + 1, Image: fmt.Sprintf("https://media.example.test/games/%d/shot-1.jpg", n)},
		{ID: n*10 + 2, Image: fmt.Sprintf("https://media.example.test/games/%d/shot-2.jpg", n)},
	}
}
