package providers

import (
	"context"
	"log/slog"
	"time"
)

// rateLimitedProvider wraps a CatalogProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next     CatalogProvider
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewRateLimitedProvider returns a CatalogProvider that limits calls to the given interval.
// Calls block until the interval elapses to avoid exceeding upstream quotas.
func NewRateLimitedProvider(next CatalogProvider, interval time.Duration, logger *slog.Logger) CatalogProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) FetchGame(ctx context.Context, ref GameRef) (GameDetail, error) {
	if err := p.wait(ctx, "fetch_game"); err != nil {
		return GameDetail{}, err
	}
	return p.next.FetchGame(ctx, ref)
}

func (p *rateLimitedProvider) FetchScreenshots(ctx context.Context, rawgID int) ([]ScreenshotEntry, error) {
	if err := p.wait(ctx, "fetch_screenshots"); err != nil {
		return nil, err
	}
	return p.next.FetchScreenshots(ctx, rawgID)
}

func (p *rateLimitedProvider) ListGames(ctx context.Context, params ListParams) (GamesPage, error) {
	if err := p.wait(ctx, "list_games"); err != nil {
		return GamesPage{}, err
	}
	return p.next.ListGames(ctx, params)
}

// SearchGames delegates when the inner provider supports search.
func (p *rateLimitedProvider) SearchGames(ctx context.Context, query string, page, pageSize int) (GamesPage, error) {
	searcher, ok := p.next.(Searcher)
	if !ok {
		return GamesPage{}, ErrProviderUnavailable
	}
	if err := p.wait(ctx, "search_games"); err != nil {
		return GamesPage{}, err
	}
	return searcher.SearchGames(ctx, query, page, pageSize)
}

// Close stops the internal ticker.
func (p *rateLimitedProvider) Close() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if c, ok := p.next.(interface{ Close() }); ok {
		c.Close()
	}
}

func (p *rateLimitedProvider) wait(ctx context.Context, op string) error {
	if p.next == nil {
		providerLog(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		return ErrProviderUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		providerLog(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited call canceled", slog.String("op", op))
		return ctx.Err()
	case <-p.ticker.C:
	}
	providerLog(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited provider call", slog.String("op", op))
	return nil
}
