package events

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	"github.com/preston-bernstein/game-catalog-service/internal/domain/games"
	"github.com/preston-bernstein/game-catalog-service/internal/timeutil"
)

// Namespaces prefix routing keys: "<namespace>.<event_type>".
const (
	NamespaceGames    = "games"
	NamespaceComments = "comments"
)

const (
	TypeGameSynced     = "game_synced"
	TypeGameUpdated    = "game_updated"
	TypeCommentDeleted = "comment_deleted"
)

// Event is a typed payload that can be published on the bus.
type Event interface {
	EventType() string
	Namespace() string
}

// RoutingKey derives the topic routing key for an event.
func RoutingKey(e Event) string {
	return e.Namespace() + "." + e.EventType()
}

// GameSynced is emitted after a game has been fetched from upstream and stored.
type GameSynced struct {
	GameID      string   `json:"game_id"`
	RawgID      int      `json:"rawg_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Platforms   []string `json:"platforms"`
	Genres      []string `json:"genres"`
	Rating      *float64 `json:"rating"`
	ReleaseDate *string  `json:"release_date"`
}

func (GameSynced) EventType() string { return TypeGameSynced }
func (GameSynced) Namespace() string { return NamespaceGames }

// NewGameSynced summarizes a stored game.
func NewGameSynced(g games.Game) GameSynced {
	return GameSynced{
		GameID:      g.ID,
		RawgID:      g.RawgID,
		Name:        g.Name,
		Slug:        g.Slug,
		Platforms:   g.PlatformNames(),
		Genres:      g.GenreNames(),
		Rating:      g.Rating,
		ReleaseDate: timeutil.FormatOptionalDate(g.ReleaseDate),
	}
}

// GameUpdated is emitted when a re-sync changed an existing game.
type GameUpdated struct {
	GameID  string         `json:"game_id"`
	RawgID  int            `json:"rawg_id"`
	Name    string         `json:"name"`
	Slug    string         `json:"slug"`
	Changes map[string]any `json:"changes"`
}

func (GameUpdated) EventType() string { return TypeGameUpdated }
func (GameUpdated) Namespace() string { return NamespaceGames }

// NewGameUpdated builds an update event; a nil changes map is sent as {}.
func NewGameUpdated(g games.Game, changes map[string]any) GameUpdated {
	if changes == nil {
		changes = map[string]any{}
	}
	return GameUpdated{
		GameID:  g.ID,
		RawgID:  g.RawgID,
		Name:    g.Name,
		Slug:    g.Slug,
		Changes: changes,
	}
}

// CommentDeleted is published by the comments service.
type CommentDeleted struct {
	CommentID string `json:"comment_id"`
	GameID    string `json:"game_id"`
	UserID    string `json:"user_id"`
}

// UnmarshalJSON accepts ids as JSON strings or numbers.
func (c *CommentDeleted) UnmarshalJSON(b []byte) error {
	var raw struct {
		CommentID any `json:"comment_id"`
		GameID    any `json:"game_id"`
		UserID    any `json:"user_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	ids := []struct {
		name string
		src  any
		dst  *string
	}{
		{"comment_id", raw.CommentID, &c.CommentID},
		{"game_id", raw.GameID, &c.GameID},
		{"user_id", raw.UserID, &c.UserID},
	}
	for _, id := range ids {
		v, err := cast.ToStringE(id.src)
		if err != nil {
			return fmt.Errorf("%s: %w", id.name, err)
		}
		*id.dst = v
	}
	return nil
}

func (CommentDeleted) EventType() string { return TypeCommentDeleted }
func (CommentDeleted) Namespace() string { return NamespaceComments }
