package games

import (
	"context"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/events"
)

// Repository persists the catalog. Lookups return domain.ErrNotFound on a miss.
type Repository interface {
	ListGames(ctx context.Context, filter domaingames.ListFilter, limit, offset int) ([]domaingames.Game, error)
	CountGames(ctx context.Context, filter domaingames.ListFilter) (int64, error)
	GetByID(ctx context.Context, id string) (domaingames.Game, error)
	GetBySlug(ctx context.Context, slug string) (domaingames.Game, error)
	GetByRawgID(ctx context.Context, rawgID int) (domaingames.Game, error)
	UpsertGame(ctx context.Context, game domaingames.Game) (domaingames.Game, error)
	DeleteGame(ctx context.Context, id string) error
	ListScreenshots(ctx context.Context, gameID string) ([]domaingames.Screenshot, error)
	ReplaceScreenshots(ctx context.Context, gameID string, shots []domaingames.Screenshot) error
	ListGenres(ctx context.Context) ([]string, error)
	ListPlatforms(ctx context.Context) ([]string, error)
	ListAgeRatings(ctx context.Context) ([]string, error)
}

// EventPublisher emits domain events after mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
