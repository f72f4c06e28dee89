package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/timeutil"
)

// MemoryStore keeps the catalog in memory with the same semantics as GormStore.
// Used by tests and by the server when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	games    map[string]domaingames.Game
	byRawgID map[int]string
	nextShot int
	now      func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:    make(map[string]domaingames.Game),
		byRawgID: make(map[int]string),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) ListGames(_ context.Context, filter domaingames.ListFilter, limit, offset int) ([]domaingames.Game, error) {
	s.mu.RLock()
	matched := s.filtered(filter)
	s.mu.RUnlock()

	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) CountGames(_ context.Context, filter domaingames.ListFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filtered(filter))), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domaingames.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return domaingames.Game{}, fmt.Errorf("%w: game %v", domain.ErrNotFound, id)
	}
	return cloneGame(g), nil
}

func (s *MemoryStore) GetBySlug(_ context.Context, slug string) (domaingames.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.games {
		if g.Slug == slug {
			return cloneGame(g), nil
		}
	}
	return domaingames.Game{}, fmt.Errorf("%w: game %v", domain.ErrNotFound, slug)
}

func (s *MemoryStore) GetByRawgID(_ context.Context, rawgID int) (domaingames.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byRawgID[rawgID]
	if !ok {
		return domaingames.Game{}, fmt.Errorf("%w: game %v", domain.ErrNotFound, rawgID)
	}
	return cloneGame(s.games[id]), nil
}

func (s *MemoryStore) UpsertGame(_ context.Context, game domaingames.Game) (domaingames.Game, error) {
	if game.RawgID == 0 && game.Slug == "" {
		return domaingames.Game{}, fmt.Errorf("%w: game requires rawg id or slug", domain.ErrInvalidArgument)
	}
	if game.ID == "" {
		game.ID = domaingames.StorageID(game.RawgID, game.Slug)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	existingID, found := s.lookup(game)
	if found {
		game.CreatedAt = s.games[existingID].CreatedAt
		game = game.WithID(existingID)
	} else {
		if _, taken := s.games[game.ID]; taken {
			return domaingames.Game{}, fmt.Errorf("%w: duplicate game id %q", domain.ErrStorage, game.ID)
		}
		game.CreatedAt = now
	}
	if other := s.slugOwner(game.Slug); other != "" && other != game.ID {
		return domaingames.Game{}, fmt.Errorf("%w: duplicate slug %q", domain.ErrStorage, game.Slug)
	}
	game.UpdatedAt = now

	stored := s.normalize(game)
	s.games[stored.ID] = stored
	s.byRawgID[stored.RawgID] = stored.ID
	return cloneGame(stored), nil
}

func (s *MemoryStore) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return fmt.Errorf("%w: game %q", domain.ErrNotFound, id)
	}
	delete(s.games, id)
	delete(s.byRawgID, g.RawgID)
	return nil
}

func (s *MemoryStore) ListScreenshots(_ context.Context, gameID string) ([]domaingames.Screenshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return []domaingames.Screenshot{}, nil
	}
	return append([]domaingames.Screenshot{}, g.Screenshots...), nil
}

func (s *MemoryStore) ReplaceScreenshots(_ context.Context, gameID string, shots []domaingames.Screenshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: game %q", domain.ErrNotFound, gameID)
	}
	g.Screenshots = s.assignShotIDs(gameID, shots)
	s.games[gameID] = g
	return nil
}

func (s *MemoryStore) ListGenres(_ context.Context) ([]string, error) {
	return s.distinct(func(g domaingames.Game) []string { return g.GenreNames() }), nil
}

func (s *MemoryStore) ListPlatforms(_ context.Context) ([]string, error) {
	return s.distinct(func(g domaingames.Game) []string { return g.PlatformNames() }), nil
}

func (s *MemoryStore) ListAgeRatings(_ context.Context) ([]string, error) {
	return s.distinct(func(g domaingames.Game) []string {
		if g.AgeRating == nil {
			return nil
		}
		return []string{*g.AgeRating}
	}), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) lookup(game domaingames.Game) (string, bool) {
	if game.RawgID != 0 {
		id, ok := s.byRawgID[game.RawgID]
		return id, ok
	}
	id := s.slugOwner(game.Slug)
	return id, id != ""
}

func (s *MemoryStore) slugOwner(slug string) string {
	for id, g := range s.games {
		if g.Slug == slug {
			return id
		}
	}
	return ""
}

// normalize renumbers platform and genre positions and assigns screenshot ids.
func (s *MemoryStore) normalize(g domaingames.Game) domaingames.Game {
	platforms := make([]domaingames.Platform, 0, len(g.Platforms))
	for i, p := range g.Platforms {
		platforms = append(platforms, domaingames.Platform{ID: i + 1, Name: p.Name})
	}
	genres := make([]domaingames.Genre, 0, len(g.Genres))
	for i, gn := range g.Genres {
		genres = append(genres, domaingames.Genre{ID: i + 1, Name: gn.Name})
	}
	g.Platforms = platforms
	g.Genres = genres
	g.Tags = append([]string{}, g.Tags...)
	g.Screenshots = s.assignShotIDs(g.ID, g.Screenshots)
	return g
}

func (s *MemoryStore) assignShotIDs(gameID string, shots []domaingames.Screenshot) []domaingames.Screenshot {
	out := make([]domaingames.Screenshot, 0, len(shots))
	for _, shot := range shots {
		s.nextShot++
		out = append(out, domaingames.Screenshot{ID: s.nextShot, GameID: gameID, URL: shot.URL})
	}
	return out
}

func (s *MemoryStore) filtered(f domaingames.ListFilter) []domaingames.Game {
	out := make([]domaingames.Game, 0, len(s.games))
	for _, g := range s.games {
		if matches(g, f) {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) distinct(names func(domaingames.Game) []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, g := range s.games {
		for _, n := range names(g) {
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func matches(g domaingames.Game, f domaingames.ListFilter) bool {
	if v := strings.TrimSpace(f.Search); v != "" && !containsFold(g.Name, v) {
		return false
	}
	if v := strings.TrimSpace(f.Platform); v != "" && !anyContainsFold(g.PlatformNames(), v) {
		return false
	}
	if v := strings.TrimSpace(f.Genre); v != "" && !anyContainsFold(g.GenreNames(), v) {
		return false
	}
	if v := strings.TrimSpace(f.AgeRating); v != "" && (g.AgeRating == nil || !containsFold(*g.AgeRating, v)) {
		return false
	}
	if f.YearFrom != nil && (g.ReleaseDate == nil || g.ReleaseDate.Before(timeutil.YearStart(*f.YearFrom))) {
		return false
	}
	if f.YearTo != nil && (g.ReleaseDate == nil || g.ReleaseDate.After(timeutil.YearEnd(*f.YearTo))) {
		return false
	}
	if f.RatingFrom != nil && (g.Rating == nil || *g.Rating < *f.RatingFrom) {
		return false
	}
	if f.RatingTo != nil && (g.Rating == nil || *g.Rating > *f.RatingTo) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(values []string, sub string) bool {
	for _, v := range values {
		if containsFold(v, sub) {
			return true
		}
	}
	return false
}

func cloneGame(g domaingames.Game) domaingames.Game {
	g.Platforms = append([]domaingames.Platform{}, g.Platforms...)
	g.Genres = append([]domaingames.Genre{}, g.Genres...)
	g.Tags = append([]string{}, g.Tags...)
	g.Screenshots = append([]domaingames.Screenshot{}, g.Screenshots...)
	return g
}
