package games

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
)

// DeleteGame removes a stored game, resolved by id or slug, with its child rows.
func (s *Service) DeleteGame(ctx context.Context, identifier string) error {
	g, err := s.GetGame(ctx, identifier)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteGame(ctx, g.ID); err != nil {
		return err
	}
	logging.Info(logging.FromContext(ctx, s.logger), "game deleted",
		slog.String(logging.FieldGameID, g.ID),
		slog.Int(logging.FieldRawgID, g.RawgID),
		slog.String(logging.FieldSlug, g.Slug),
	)
	return nil
}

// Screenshots lists the stored screenshots of a game resolved by id or slug.
func (s *Service) Screenshots(ctx context.Context, identifier string) ([]domaingames.Screenshot, error) {
	g, err := s.GetGame(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return s.repo.ListScreenshots(ctx, g.ID)
}

// RefreshScreenshots replaces a stored game's screenshots with the upstream list.
// It costs one upstream request and leaves every other field untouched.
func (s *Service) RefreshScreenshots(ctx context.Context, identifier string) ([]domaingames.Screenshot, error) {
	if err := s.requireProvider(); err != nil {
		return nil, err
	}
	g, err := s.GetGame(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if g.RawgID == 0 {
		return nil, fmt.Errorf("%w: game %q has no rawg id", domain.ErrInvalidArgument, g.ID)
	}
	entries, err := s.provider.FetchScreenshots(ctx, g.RawgID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceScreenshots(ctx, g.ID, providers.FromScreenshots(g.ID, entries)); err != nil {
		return nil, err
	}
	shots, err := s.repo.ListScreenshots(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	logging.Info(logging.FromContext(ctx, s.logger), "screenshots refreshed",
		slog.String(logging.FieldGameID, g.ID),
		slog.Int(logging.FieldCount, len(shots)),
	)
	return shots, nil
}

// SearchUpstream runs a free-text search against the catalog provider without storing
// anything. Items carry the storage id a sync would assign.
func (s *Service) SearchUpstream(ctx context.Context, query string, page, pageSize int) (GameListResponse, error) {
	if query == "" {
		return GameListResponse{}, fmt.Errorf("%w: search query is required", domain.ErrInvalidArgument)
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = providers.MaxPageSize
	}
	if page < 1 {
		return GameListResponse{}, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidArgument)
	}
	if pageSize < 1 || pageSize > providers.MaxPageSize {
		return GameListResponse{}, fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrInvalidArgument, providers.MaxPageSize)
	}
	if err := s.requireProvider(); err != nil {
		return GameListResponse{}, err
	}
	searcher, ok := s.provider.(providers.Searcher)
	if !ok {
		return GameListResponse{}, fmt.Errorf("%w: provider does not support search", providers.ErrProviderUnavailable)
	}

	res, err := searcher.SearchGames(ctx, query, page, pageSize)
	if err != nil {
		return GameListResponse{}, err
	}
	items := make([]GameListItem, 0, len(res.Results))
	for _, item := range res.Results {
		items = append(items, NewGameListItem(providers.FromListItem(item)))
	}
	return GameListResponse{Total: int64(res.Count), Items: items}, nil
}
