package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/logging"
)

// providerLog writes through the request-scoped logger when ctx carries one, tagged with the provider name.
func providerLog(ctx context.Context, fallback *slog.Logger, level slog.Level, provider, msg string, args ...any) {
	logger := logging.FromContext(ctx, fallback)
	if logger == nil || !logger.Enabled(ctx, level) {
		return
	}
	args = append(args, slog.String(logging.FieldProvider, provider))
	logger.Log(ctx, level, msg, args...)
}
