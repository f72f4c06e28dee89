package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/events"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
	"github.com/preston-bernstein/game-catalog-service/internal/tracing"
)

const (
	SyncKindSingle = "single"
	SyncKindBatch  = "batch"

	maxBatchPages = 500
)

// SyncGame fetches the full detail and screenshots for one game, stores it, and
// publishes game_synced. A publish failure is logged but does not fail the sync.
func (s *Service) SyncGame(ctx context.Context, req SyncRequest) (domaingames.Game, error) {
	if req.RawgSlug == "" && req.RawgID == 0 {
		return domaingames.Game{}, fmt.Errorf("%w: rawg_slug or rawg_id is required", domain.ErrInvalidArgument)
	}
	if err := s.requireProvider(); err != nil {
		return domaingames.Game{}, err
	}

	ctx, span := tracing.StartSpan(ctx, "games.SyncGame")
	defer span.End()
	span.SetAttributes(attribute.String("rawg.slug", req.RawgSlug), attribute.Int("rawg.id", req.RawgID))

	start := time.Now()
	run := metrics.SyncRun{Kind: SyncKindSingle}
	defer func() {
		run.Duration = time.Since(start)
		s.metrics.RecordSync(run)
	}()

	game, err := s.fetchDetail(ctx, providers.GameRef{Slug: req.RawgSlug, RawgID: req.RawgID})
	if err != nil {
		run.Err = err
		span.SetStatus(codes.Error, err.Error())
		return domaingames.Game{}, err
	}
	run.RequestsUsed = 2

	id := req.RawgSlug
	if id == "" {
		id = domaingames.StorageID(game.RawgID, game.Slug)
	}
	game = game.WithID(id)

	previous, found, err := s.lookupExisting(ctx, game)
	if err != nil {
		run.Err = err
		return domaingames.Game{}, err
	}

	saved, err := s.repo.UpsertGame(ctx, game)
	if err != nil {
		run.Err = err
		span.SetStatus(codes.Error, err.Error())
		return domaingames.Game{}, err
	}

	run.TotalSynced, run.DetailsLoaded = 1, 1
	if found {
		run.UpdatedGames = 1
	} else {
		run.NewGames = 1
	}

	logging.Info(logging.FromContext(ctx, s.logger), "game synced",
		slog.String(logging.FieldGameID, saved.ID),
		slog.Int(logging.FieldRawgID, saved.RawgID),
		slog.String(logging.FieldSlug, saved.Slug),
	)
	s.publish(ctx, events.NewGameSynced(saved))
	if found {
		if changes := diffGames(previous, saved); len(changes) > 0 {
			s.publish(ctx, events.NewGameUpdated(saved, changes))
		}
	}
	return saved, nil
}

// SyncBatch walks listing pages ordered by rating and stores lightweight records,
// optionally enriching up to DetailsLimit games that have no detail payload yet.
// Enrichment failures are logged and skipped; a listing or storage failure aborts
// the run and returns the counters accumulated so far with the error.
func (s *Service) SyncBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if err := validateBatch(req); err != nil {
		return BatchResult{}, err
	}
	if err := s.requireProvider(); err != nil {
		return BatchResult{}, err
	}

	ctx, span := tracing.StartSpan(ctx, "games.SyncBatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("batch.start_page", req.StartPage),
		attribute.Int("batch.pages", req.Pages),
		attribute.Int("batch.page_size", req.PageSize),
		attribute.Bool("batch.load_details", req.LoadDetails),
	)

	logger := logging.FromContext(ctx, s.logger)
	start := time.Now()
	var (
		res          BatchResult
		detailErrors int
	)
	finish := func(err error) (BatchResult, error) {
		s.metrics.RecordSync(metrics.SyncRun{
			Kind:          SyncKindBatch,
			TotalSynced:   res.TotalSynced,
			NewGames:      res.NewGames,
			UpdatedGames:  res.UpdatedGames,
			DetailsLoaded: res.DetailsLoaded,
			DetailErrors:  detailErrors,
			RequestsUsed:  res.RequestsUsed,
			Duration:      time.Since(start),
			Err:           err,
		})
		attrs := []any{
			slog.Int("total_synced", res.TotalSynced),
			slog.Int("new_games", res.NewGames),
			slog.Int("updated_games", res.UpdatedGames),
			slog.Int("details_loaded", res.DetailsLoaded),
			slog.Int("detail_errors", detailErrors),
			slog.Int("requests_used", res.RequestsUsed),
			slog.Int("pages_processed", res.PagesProcessed),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			logging.Error(logger, "batch sync aborted", err, attrs...)
			return res, err
		}
		logging.Info(logger, "batch sync completed", attrs...)
		return res, nil
	}

	for page := req.StartPage; page < req.StartPage+req.Pages; page++ {
		list, err := s.provider.ListGames(ctx, providers.ListParams{
			Page:     page,
			PageSize: req.PageSize,
			Ordering: providers.OrderingByRating,
		})
		res.RequestsUsed++
		if err != nil {
			return finish(fmt.Errorf("list page %d: %w", page, err))
		}

		for _, item := range list.Results {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}

			game := providers.FromListItem(item)
			game = game.WithID(domaingames.StorageID(game.RawgID, game.Slug))

			existing, found, err := s.lookupExisting(ctx, game)
			if err != nil {
				return finish(err)
			}
			isNew := !found
			hasDetails := found && existing.HasDetails()
			if found {
				game = game.WithID(existing.ID)
			}

			if isNew || !hasDetails {
				if _, err := s.repo.UpsertGame(ctx, game); err != nil {
					return finish(err)
				}
				if isNew {
					res.NewGames++
				} else {
					res.UpdatedGames++
				}
			}
			res.TotalSynced++

			if !req.LoadDetails || hasDetails {
				continue
			}
			if req.DetailsLimit > 0 && res.DetailsLoaded >= req.DetailsLimit {
				continue
			}
			if err := s.enrich(ctx, game); err != nil {
				detailErrors++
				logging.Warn(logger, "game enrichment failed",
					slog.String(logging.FieldGameID, game.ID),
					slog.Int(logging.FieldRawgID, game.RawgID),
					slog.Int(logging.FieldPage, page),
					slog.Any(logging.FieldError, err),
				)
				continue
			}
			res.RequestsUsed += 2
			res.DetailsLoaded++
		}
		res.PagesProcessed++
	}
	return finish(nil)
}

// enrich replaces the lightweight record with the full detail payload under the same id.
func (s *Service) enrich(ctx context.Context, game domaingames.Game) error {
	ref := providers.GameRef{RawgID: game.RawgID}
	if ref.RawgID == 0 {
		ref.Slug = game.Slug
	}
	full, err := s.fetchDetail(ctx, ref)
	if err != nil {
		return err
	}
	_, err = s.repo.UpsertGame(ctx, full.WithID(game.ID))
	return err
}

// fetchDetail costs two upstream requests: the game and its screenshot list.
func (s *Service) fetchDetail(ctx context.Context, ref providers.GameRef) (domaingames.Game, error) {
	detail, err := s.provider.FetchGame(ctx, ref)
	if err != nil {
		return domaingames.Game{}, err
	}
	shots, err := s.provider.FetchScreenshots(ctx, detail.ID)
	if err != nil {
		return domaingames.Game{}, err
	}
	detail.ShortScreenshots = shots
	return providers.FromDetail(detail), nil
}

// lookupExisting finds the stored row the upsert will match: by rawg id, or by slug
// when the upstream id is unknown.
func (s *Service) lookupExisting(ctx context.Context, game domaingames.Game) (domaingames.Game, bool, error) {
	var (
		g   domaingames.Game
		err error
	)
	switch {
	case game.RawgID != 0:
		g, err = s.repo.GetByRawgID(ctx, game.RawgID)
	case game.Slug != "":
		g, err = s.repo.GetBySlug(ctx, game.Slug)
	default:
		return domaingames.Game{}, false, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domaingames.Game{}, false, nil
	}
	if err != nil {
		return domaingames.Game{}, false, err
	}
	return g, true, nil
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	// the error is already logged by the publisher
	_ = s.publisher.Publish(ctx, evt)
}

func validateBatch(req BatchRequest) error {
	switch {
	case req.StartPage < 1:
		return fmt.Errorf("%w: start_page must be >= 1", domain.ErrInvalidArgument)
	case req.Pages < 1 || req.Pages > maxBatchPages:
		return fmt.Errorf("%w: pages must be between 1 and %d", domain.ErrInvalidArgument, maxBatchPages)
	case req.PageSize < 1 || req.PageSize > providers.MaxPageSize:
		return fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrInvalidArgument, providers.MaxPageSize)
	case req.DetailsLimit < 0:
		return fmt.Errorf("%w: details_limit must be >= 0", domain.ErrInvalidArgument)
	}
	return nil
}

// diffGames reports the summary fields that changed between two stored versions.
func diffGames(prev, next domaingames.Game) map[string]any {
	changes := map[string]any{}
	if prev.Name != next.Name {
		changes["name"] = next.Name
	}
	if !equalPtr(prev.Rating, next.Rating) {
		changes["rating"] = next.Rating
	}
	if !equalPtr(prev.Metacritic, next.Metacritic) {
		changes["metacritic"] = next.Metacritic
	}
	if !equalPtr(prev.AgeRating, next.AgeRating) {
		changes["age_rating"] = next.AgeRating
	}
	if prev.HasDetails() != next.HasDetails() {
		changes["has_details"] = next.HasDetails()
	}
	return changes
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
