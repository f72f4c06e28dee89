package server

import (
	"github.com/preston-bernstein/game-catalog-service/internal/config"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
	"github.com/preston-bernstein/game-catalog-service/internal/providers/fixture"
	"github.com/preston-bernstein/game-catalog-service/internal/providers/rawg"
)

func selectProvider(cfg config.Config) providers.CatalogProvider {
	switch cfg.Provider {
	case config.ProviderFixture:
		return fixture.New()
	default:
		return rawg.NewClient(rawg.Config{
			BaseURL: cfg.Rawg.BaseURL,
			APIKey:  cfg.Rawg.APIKey,
			Timeout: cfg.Rawg.Timeout,
		})
	}
}
