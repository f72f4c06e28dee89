package providers

import "context"

// Default listing parameters used by the batch sync.
const (
	MaxPageSize      = 40
	OrderingByRating = "-rating"
)

// GameRef identifies an upstream game by slug or numeric id. Slug wins when both are set.
type GameRef struct {
	Slug   string
	RawgID int
}

// IsZero reports whether neither identifier is set.
func (r GameRef) IsZero() bool {
	return r.Slug == "" && r.RawgID == 0
}

// ListParams are the filters accepted by the listing endpoint. Empty strings are omitted.
type ListParams struct {
	Page      int
	PageSize  int
	Ordering  string
	Dates     string
	Platforms string
	Genres    string
}

// CatalogProvider fetches upstream catalog payloads. Every call is exactly one upstream request.
type CatalogProvider interface {
	FetchGame(ctx context.Context, ref GameRef) (GameDetail, error)
	FetchScreenshots(ctx context.Context, rawgID int) ([]ScreenshotEntry, error)
	ListGames(ctx context.Context, params ListParams) (GamesPage, error)
}

// Searcher is implemented by providers that support free-text search.
type Searcher interface {
	SearchGames(ctx context.Context, query string, page, pageSize int) (GamesPage, error)
}
