package events

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/logging"
)

// CommentDeletedHandler logs comment removals reported by the comments service.
func CommentDeletedHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, env Envelope) error {
		var evt CommentDeleted
		if err := env.Decode(&evt); err != nil {
			return err
		}
		logging.Info(logging.FromContext(ctx, logger), "comment deleted",
			slog.String("comment_id", evt.CommentID),
			slog.String(logging.FieldGameID, evt.GameID),
			slog.String("user_id", evt.UserID),
		)
		return nil
	}
}

// GameEventLogger records this service's own game events as they come back off the bus.
func GameEventLogger(logger *slog.Logger) Handler {
	return func(ctx context.Context, env Envelope) error {
		var evt struct {
			GameID string `json:"game_id"`
			RawgID int    `json:"rawg_id"`
		}
		if err := env.Decode(&evt); err != nil {
			return err
		}
		logging.Debug(logging.FromContext(ctx, logger), "game event observed",
			slog.String(logging.FieldEventType, env.EventType),
			slog.String(logging.FieldGameID, evt.GameID),
			slog.Int(logging.FieldRawgID, evt.RawgID),
		)
		return nil
	}
}
