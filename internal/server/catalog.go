package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/config"
	"github.com/preston-bernstein/game-catalog-service/internal/events"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
	"github.com/preston-bernstein/game-catalog-service/internal/store"
)

// Catalog bundles the storage, upstream provider and publisher behind the games service.
// Both the long-running server and one-shot commands build one.
type Catalog struct {
	Store     *store.GormStore
	Provider  providers.CatalogProvider
	Publisher *events.Publisher
	Service   *games.Service
}

// OpenCatalog connects to the database and wires the games service with the given publisher.
// A nil publisher discards events.
func OpenCatalog(ctx context.Context, cfg config.Config, publisher *events.Publisher, logger *slog.Logger, recorder *metrics.Recorder) (*Catalog, error) {
	db, err := store.Open(storeConfig(cfg), logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
	}
	if publisher == nil {
		publisher = events.NewPublisher(events.NoopSender{}, cfg.Events.ServiceName, logger, recorder)
	}

	gormStore := store.NewGormStore(db)
	provider := newProviderFactory(logger, recorder).build(cfg)
	return &Catalog{
		Store:     gormStore,
		Provider:  provider,
		Publisher: publisher,
		Service:   games.NewService(gormStore, provider, publisher, logger, recorder),
	}, nil
}

// Close releases the publisher, provider and database in that order.
func (c *Catalog) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if closer, ok := c.Provider.(interface{ Close() }); ok {
		closer.Close()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Migrate opens the configured database and creates or updates the schema.
func Migrate(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := store.Open(storeConfig(cfg), logger)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := store.Migrate(ctx, db); err != nil {
		return err
	}
	logging.Info(logger, "database migrated", slog.String("dsn", store.MaskDSN(cfg.Database.URL)))
	return nil
}

func storeConfig(cfg config.Config) store.Config {
	return store.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogSQL:          cfg.Database.LogSQL,
	}
}
