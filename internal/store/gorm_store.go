package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/timeutil"
)

// GormStore persists the game catalog in a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection (migrations, shutdown).
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// ListGames returns a page of games matching the filter, ordered by name.
func (s *GormStore) ListGames(ctx context.Context, filter domaingames.ListFilter, limit, offset int) ([]domaingames.Game, error) {
	var models []GameModel
	q := applyFilter(s.db.WithContext(ctx).Model(&GameModel{}), filter)
	q = preloadChildren(q).Order("games.name ASC").Order("games.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, storageErr("list games", err)
	}

	out := make([]domaingames.Game, 0, len(models))
	for i := range models {
		out = append(out, toDomain(&models[i]))
	}
	return out, nil
}

// CountGames returns the number of games matching the filter.
func (s *GormStore) CountGames(ctx context.Context, filter domaingames.ListFilter) (int64, error) {
	var total int64
	q := applyFilter(s.db.WithContext(ctx).Model(&GameModel{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return 0, storageErr("count games", err)
	}
	return total, nil
}

// GetByID loads a game with all child collections.
func (s *GormStore) GetByID(ctx context.Context, id string) (domaingames.Game, error) {
	return s.getBy(s.db.WithContext(ctx), "games.id = ?", id)
}

// GetBySlug loads a game by its unique slug.
func (s *GormStore) GetBySlug(ctx context.Context, slug string) (domaingames.Game, error) {
	return s.getBy(s.db.WithContext(ctx), "games.slug = ?", slug)
}

// GetByRawgID loads a game by its upstream id.
func (s *GormStore) GetByRawgID(ctx context.Context, rawgID int) (domaingames.Game, error) {
	return s.getBy(s.db.WithContext(ctx), "games.rawg_id = ?", rawgID)
}

// UpsertGame inserts or fully replaces the game keyed by its external id.
// The existing row keeps its storage id; every scalar and child collection is overwritten.
func (s *GormStore) UpsertGame(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	if game.RawgID == 0 && game.Slug == "" {
		return domaingames.Game{}, fmt.Errorf("%w: game requires rawg id or slug", domain.ErrInvalidArgument)
	}
	if game.ID == "" {
		game.ID = domaingames.StorageID(game.RawgID, game.Slug)
	}

	id, err := s.upsertOnce(ctx, game)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent insert won the race; the retry takes the update path
		id, err = s.upsertOnce(ctx, game)
	}
	if err != nil {
		return domaingames.Game{}, storageErr("upsert game", err)
	}
	return s.getBy(s.db.WithContext(ctx), "games.id = ?", id)
}

func (s *GormStore) upsertOnce(ctx context.Context, game domaingames.Game) (string, error) {
	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing GameModel
		lookup := tx.Where("rawg_id = ?", game.RawgID)
		if game.RawgID == 0 {
			lookup = tx.Where("slug = ?", game.Slug)
		}
		err := lookup.Take(&existing).Error
		switch {
		case err == nil:
			rec := toModel(game)
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			if err := deleteChildren(tx, existing.ID); err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Save(&rec).Error; err != nil {
				return err
			}
			id = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec := toModel(game)
			if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
				return err
			}
			id = rec.ID
		default:
			return err
		}
		return createChildren(tx, id, game)
	})
	return id, err
}

// DeleteGame removes a game and its child collections.
func (s *GormStore) DeleteGame(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&GameModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: game %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return storageErr("delete game", err)
	}
	return nil
}

// ListScreenshots returns the screenshots stored for a game.
func (s *GormStore) ListScreenshots(ctx context.Context, gameID string) ([]domaingames.Screenshot, error) {
	var models []ScreenshotModel
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Order("id").Find(&models).Error; err != nil {
		return nil, storageErr("list screenshots", err)
	}
	return screenshotsToDomain(gameID, models), nil
}

// ReplaceScreenshots atomically deletes all screenshots for a game and inserts the new set.
func (s *GormStore) ReplaceScreenshots(ctx context.Context, gameID string, shots []domaingames.Screenshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&ScreenshotModel{}).Error; err != nil {
			return err
		}
		models := make([]ScreenshotModel, 0, len(shots))
		for _, shot := range shots {
			models = append(models, ScreenshotModel{GameID: gameID, URL: shot.URL})
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		return storageErr("replace screenshots", err)
	}
	return nil
}

// ListGenres returns distinct genre names, sorted.
func (s *GormStore) ListGenres(ctx context.Context) ([]string, error) {
	return s.distinctNames(ctx, &GenreModel{}, "name")
}

// ListPlatforms returns distinct platform names, sorted.
func (s *GormStore) ListPlatforms(ctx context.Context) ([]string, error) {
	return s.distinctNames(ctx, &PlatformModel{}, "name")
}

// ListAgeRatings returns distinct non-empty age ratings, sorted.
func (s *GormStore) ListAgeRatings(ctx context.Context) ([]string, error) {
	return s.distinctNames(ctx, &GameModel{}, "age_rating")
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) distinctNames(ctx context.Context, model any, column string) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).Model(model).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &names).Error
	if err != nil {
		return nil, storageErr("list "+column, err)
	}
	return names, nil
}

func (s *GormStore) getBy(db *gorm.DB, query string, arg any) (domaingames.Game, error) {
	var model GameModel
	err := preloadChildren(db.Model(&GameModel{})).Where(query, arg).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domaingames.Game{}, fmt.Errorf("%w: game %v", domain.ErrNotFound, arg)
	}
	if err != nil {
		return domaingames.Game{}, storageErr("get game", err)
	}
	return toDomain(&model), nil
}

func applyFilter(q *gorm.DB, f domaingames.ListFilter) *gorm.DB {
	if v := strings.TrimSpace(f.Search); v != "" {
		q = q.Where("LOWER(games.name) LIKE ?", likePattern(v))
	}
	if v := strings.TrimSpace(f.Platform); v != "" {
		q = q.Where("EXISTS (SELECT 1 FROM game_platforms gp WHERE gp.game_id = games.id AND LOWER(gp.name) LIKE ?)", likePattern(v))
	}
	if v := strings.TrimSpace(f.Genre); v != "" {
		q = q.Where("EXISTS (SELECT 1 FROM game_genres gg WHERE gg.game_id = games.id AND LOWER(gg.name) LIKE ?)", likePattern(v))
	}
	if v := strings.TrimSpace(f.AgeRating); v != "" {
		q = q.Where("LOWER(games.age_rating) LIKE ?", likePattern(v))
	}
	if f.YearFrom != nil {
		q = q.Where("games.release_date >= ?", datatypes.Date(timeutil.YearStart(*f.YearFrom)))
	}
	if f.YearTo != nil {
		q = q.Where("games.release_date <= ?", datatypes.Date(timeutil.YearEnd(*f.YearTo)))
	}
	if f.RatingFrom != nil {
		q = q.Where("games.rating >= ?", *f.RatingFrom)
	}
	if f.RatingTo != nil {
		q = q.Where("games.rating <= ?", *f.RatingTo)
	}
	return q
}

func likePattern(v string) string {
	return "%" + strings.ToLower(v) + "%"
}

func preloadChildren(q *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return q.Preload("Platforms", byID).
		Preload("Genres", byID).
		Preload("Tags", byID).
		Preload("Screenshots", byID)
}

func deleteChildren(tx *gorm.DB, gameID string) error {
	for _, model := range []any{&PlatformModel{}, &GenreModel{}, &TagModel{}, &ScreenshotModel{}} {
		if err := tx.Where("game_id = ?", gameID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createChildren(tx *gorm.DB, gameID string, game domaingames.Game) error {
	platforms := make([]PlatformModel, 0, len(game.Platforms))
	for _, p := range game.Platforms {
		platforms = append(platforms, PlatformModel{GameID: gameID, Name: p.Name})
	}
	genres := make([]GenreModel, 0, len(game.Genres))
	for _, g := range game.Genres {
		genres = append(genres, GenreModel{GameID: gameID, Name: g.Name})
	}
	tags := make([]TagModel, 0, len(game.Tags))
	for _, name := range game.Tags {
		tags = append(tags, TagModel{GameID: gameID, Name: name})
	}
	shots := make([]ScreenshotModel, 0, len(game.Screenshots))
	for _, s := range game.Screenshots {
		shots = append(shots, ScreenshotModel{GameID: gameID, URL: s.URL})
	}

	if len(platforms) > 0 {
		if err := tx.Create(&platforms).Error; err != nil {
			return err
		}
	}
	if len(genres) > 0 {
		if err := tx.Create(&genres).Error; err != nil {
			return err
		}
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
	}
	if len(shots) > 0 {
		if err := tx.Create(&shots).Error; err != nil {
			return err
		}
	}
	return nil
}

func toModel(g domaingames.Game) GameModel {
	var release *datatypes.Date
	if g.ReleaseDate != nil {
		d := datatypes.Date(*g.ReleaseDate)
		release = &d
	}
	return GameModel{
		ID:              g.ID,
		RawgID:          g.RawgID,
		Slug:            g.Slug,
		Name:            g.Name,
		Description:     g.Description,
		Metacritic:      g.Metacritic,
		Rating:          g.Rating,
		ReleaseDate:     release,
		Developer:       g.Developer,
		Publisher:       g.Publisher,
		BackgroundImage: g.BackgroundImage,
		Website:         g.Website,
		Playtime:        g.Playtime,
		AgeRating:       g.AgeRating,
	}
}

// toDomain renumbers platform and genre ids as 1-based positions.
func toDomain(m *GameModel) domaingames.Game {
	var release *time.Time
	if m.ReleaseDate != nil {
		y, mo, d := time.Time(*m.ReleaseDate).Date()
		t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
		release = &t
	}

	platforms := make([]domaingames.Platform, 0, len(m.Platforms))
	for i, p := range m.Platforms {
		platforms = append(platforms, domaingames.Platform{ID: i + 1, Name: p.Name})
	}
	genres := make([]domaingames.Genre, 0, len(m.Genres))
	for i, g := range m.Genres {
		genres = append(genres, domaingames.Genre{ID: i + 1, Name: g.Name})
	}
	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.Name)
	}

	return domaingames.Game{
		ID:              m.ID,
		RawgID:          m.RawgID,
		Slug:            m.Slug,
		Name:            m.Name,
		Description:     m.Description,
		Metacritic:      m.Metacritic,
		Rating:          m.Rating,
		ReleaseDate:     release,
		Developer:       m.Developer,
		Publisher:       m.Publisher,
		BackgroundImage: m.BackgroundImage,
		Website:         m.Website,
		Playtime:        m.Playtime,
		AgeRating:       m.AgeRating,
		Platforms:       platforms,
		Genres:          genres,
		Tags:            tags,
		Screenshots:     screenshotsToDomain(m.ID, m.Screenshots),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func screenshotsToDomain(gameID string, models []ScreenshotModel) []domaingames.Screenshot {
	out := make([]domaingames.Screenshot, 0, len(models))
	for _, s := range models {
		out = append(out, domaingames.Screenshot{ID: int(s.ID), GameID: gameID, URL: s.URL})
	}
	return out
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
