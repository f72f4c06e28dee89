package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
)

// Service coordinates catalog reads and upstream syncs.
type Service struct {
	repo      Repository
	provider  providers.CatalogProvider
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// NewService wires the service. provider and publisher may be nil for read-only use.
func NewService(repo Repository, provider providers.CatalogProvider, publisher EventPublisher, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		metrics:   recorder,
	}
}

// ListGames returns one page of the filtered catalog and the total match count.
func (s *Service) ListGames(ctx context.Context, q Query) (GameListResponse, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return GameListResponse{}, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidArgument)
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return GameListResponse{}, fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrInvalidArgument, MaxPageSize)
	}

	filter := q.filter()
	games, err := s.repo.ListGames(ctx, filter, q.PageSize, (q.Page-1)*q.PageSize)
	if err != nil {
		return GameListResponse{}, err
	}
	total, err := s.repo.CountGames(ctx, filter)
	if err != nil {
		return GameListResponse{}, err
	}

	items := make([]GameListItem, 0, len(games))
	for _, g := range games {
		items = append(items, NewGameListItem(g))
	}
	return GameListResponse{Total: total, Items: items}, nil
}

// GetGame resolves identifier as a storage id first, then as a slug.
func (s *Service) GetGame(ctx context.Context, identifier string) (domaingames.Game, error) {
	if identifier == "" {
		return domaingames.Game{}, fmt.Errorf("%w: game id is required", domain.ErrInvalidArgument)
	}
	g, err := s.repo.GetByID(ctx, identifier)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return g, err
	}
	return s.repo.GetBySlug(ctx, identifier)
}

// Genres lists distinct genre names.
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return s.repo.ListGenres(ctx)
}

// Platforms lists distinct platform names.
func (s *Service) Platforms(ctx context.Context) ([]string, error) {
	return s.repo.ListPlatforms(ctx)
}

// AgeRatings lists distinct age ratings.
func (s *Service) AgeRatings(ctx context.Context) ([]string, error) {
	return s.repo.ListAgeRatings(ctx)
}

func (s *Service) requireProvider() error {
	if s.provider == nil {
		return fmt.Errorf("%w: no catalog provider configured", providers.ErrProviderUnavailable)
	}
	return nil
}
