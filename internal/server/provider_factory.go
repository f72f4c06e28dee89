package server

import (
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/config"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
)

// providerFactory assembles the provider with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.CatalogProvider {
	base := selectProvider(cfg)
	name := providerName(cfg.Provider, base)
	if cfg.Provider == config.ProviderRawg && cfg.Rawg.APIKey == "" {
		logging.Warn(f.logger, "rawg api key not set; upstream calls will likely be rejected")
	}

	var wrapped providers.CatalogProvider = base
	// The fixture catalog is local; only the real upstream has a quota to respect.
	if cfg.Provider != config.ProviderFixture && cfg.Rawg.MinInterval > 0 {
		wrapped = providers.NewRateLimitedProvider(wrapped, cfg.Rawg.MinInterval, f.logger)
	}
	return providers.NewRetryingProvider(wrapped, f.logger, f.metrics, name, cfg.Rawg.RetryAttempts, cfg.Rawg.RetryBackoff)
}
