package games

import (
	"time"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/timeutil"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is the catalog listing request. Page is 1-based.
type Query struct {
	Search     string
	Platform   string
	Genre      string
	AgeRating  string
	YearFrom   *int
	YearTo     *int
	RatingFrom *float64
	RatingTo   *float64
	Page       int
	PageSize   int
}

func (q Query) filter() domaingames.ListFilter {
	return domaingames.ListFilter{
		Search:     q.Search,
		Platform:   q.Platform,
		Genre:      q.Genre,
		AgeRating:  q.AgeRating,
		YearFrom:   q.YearFrom,
		YearTo:     q.YearTo,
		RatingFrom: q.RatingFrom,
		RatingTo:   q.RatingTo,
	}
}

type GameListItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	ReleaseDate     *string  `json:"release_date"`
	Metacritic      *int     `json:"metacritic"`
	Rating          *float64 `json:"rating"`
	BackgroundImage *string  `json:"background_image"`
	Platforms       []string `json:"platforms"`
	Genres          []string `json:"genres"`
}

type GameListResponse struct {
	Total int64          `json:"total"`
	Items []GameListItem `json:"items"`
}

type GameDetail struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     *string   `json:"description"`
	Metacritic      *int      `json:"metacritic"`
	Rating          *float64  `json:"rating"`
	ReleaseDate     *string   `json:"release_date"`
	Developer       *string   `json:"developer"`
	Publisher       *string   `json:"publisher"`
	BackgroundImage *string   `json:"background_image"`
	Website         *string   `json:"website"`
	Playtime        *int      `json:"playtime"`
	AgeRating       *string   `json:"age_rating"`
	Platforms       []string  `json:"platforms"`
	Genres          []string  `json:"genres"`
	Tags            []string  `json:"tags"`
	Screenshots     []string  `json:"screenshots"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewGameListItem(g domaingames.Game) GameListItem {
	return GameListItem{
		ID:              g.ID,
		Name:            g.Name,
		Slug:            g.Slug,
		ReleaseDate:     timeutil.FormatOptionalDate(g.ReleaseDate),
		Metacritic:      g.Metacritic,
		Rating:          g.Rating,
		BackgroundImage: g.BackgroundImage,
		Platforms:       g.PlatformNames(),
		Genres:          g.GenreNames(),
	}
}

func NewGameDetail(g domaingames.Game) GameDetail {
	tags := g.Tags
	if tags == nil {
		tags = []string{}
	}
	return GameDetail{
		ID:              g.ID,
		Name:            g.Name,
		Slug:            g.Slug,
		Description:     g.Description,
		Metacritic:      g.Metacritic,
		Rating:          g.Rating,
		ReleaseDate:     timeutil.FormatOptionalDate(g.ReleaseDate),
		Developer:       g.Developer,
		Publisher:       g.Publisher,
		BackgroundImage: g.BackgroundImage,
		Website:         g.Website,
		Playtime:        g.Playtime,
		AgeRating:       g.AgeRating,
		Platforms:       g.PlatformNames(),
		Genres:          g.GenreNames(),
		Tags:            tags,
		Screenshots:     g.ScreenshotURLs(),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

// SyncRequest names the upstream game to fetch. Slug wins when both are set.
type ScreenshotItem struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type ScreenshotList struct {
	Screenshots []ScreenshotItem `json:"screenshots"`
	Total       int              `json:"total"`
}

// NewScreenshotList renders an empty set as [].
func NewScreenshotList(shots []domaingames.Screenshot) ScreenshotList {
	items := make([]ScreenshotItem, 0, len(shots))
	for _, s := range shots {
		items = append(items, ScreenshotItem{ID: s.ID, URL: s.URL})
	}
	return ScreenshotList{Screenshots: items, Total: len(items)}
}

type SyncRequest struct {
	RawgSlug string `json:"rawg_slug,omitempty"`
	RawgID   int    `json:"rawg_id,omitempty"`
}

// BatchRequest drives SyncBatch. DetailsLimit 0 means no limit.
type BatchRequest struct {
	StartPage    int  `json:"start_page"`
	Pages        int  `json:"pages"`
	PageSize     int  `json:"page_size"`
	LoadDetails  bool `json:"load_details"`
	DetailsLimit int  `json:"details_limit"`
}

// DefaultBatchRequest is one full page without enrichment.
func DefaultBatchRequest() BatchRequest {
	return BatchRequest{StartPage: 1, Pages: 1, PageSize: 40}
}

// BatchResult counts one sync run. RequestsUsed counts logical provider calls;
// retried attempts are only visible in the provider attempt metrics.
type BatchResult struct {
	TotalSynced    int `json:"total_synced"`
	NewGames       int `json:"new_games"`
	UpdatedGames   int `json:"updated_games"`
	DetailsLoaded  int `json:"details_loaded"`
	RequestsUsed   int `json:"requests_used"`
	PagesProcessed int `json:"pages_processed"`
}
