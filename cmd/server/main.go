package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/config"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/server"
)

const serviceName = "game-catalog-service"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:          "game-catalog",
		Short:        "Game catalog service backed by RAWG",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (yaml, json or toml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, sync scheduler and event consumer",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd, cfgFile)
			},
		},
		newSyncCmd(&cfgFile),
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, err := loadConfig(cfgFile)
				if err != nil {
					return err
				}
				return server.Migrate(cmd.Context(), cfg, logger)
			},
		},
	)
	return root
}

func newSyncCmd(cfgFile *string) *cobra.Command {
	req := games.DefaultBatchRequest()
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one batch sync against RAWG and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			return runSync(cmd, cfg, logger, req)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&req.StartPage, "start-page", req.StartPage, "first listing page")
	flags.IntVar(&req.Pages, "pages", req.Pages, "number of pages to sync")
	flags.IntVar(&req.PageSize, "page-size", req.PageSize, "games per page (max 40)")
	flags.BoolVar(&req.LoadDetails, "load-details", req.LoadDetails, "fetch detail and screenshots per game")
	flags.IntVar(&req.DetailsLimit, "details-limit", req.DetailsLimit, "cap on detail fetches, 0 for no cap")
	return cmd
}

func runServe(cmd *cobra.Command, cfgFile string) error {
	cfg, logger, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server startup failed", err)
		return err
	}
	srv.Run(ctx, stop)
	return nil
}

func runSync(cmd *cobra.Command, cfg config.Config, logger *slog.Logger, req games.BatchRequest) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder()
	publisher, err := server.NewPublisher(cfg, logger, recorder)
	if err != nil {
		return err
	}
	catalog, err := server.OpenCatalog(ctx, cfg, publisher, logger, recorder)
	if err != nil {
		_ = publisher.Close()
		return err
	}
	defer func() {
		if err := catalog.Close(); err != nil {
			logging.Warn(logger, "catalog close failed", slog.Any(logging.FieldError, err))
		}
	}()

	result, err := catalog.Service.SyncBatch(ctx, req)
	if err != nil {
		return fmt.Errorf("sync batch: %w", err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func loadConfig(cfgFile string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.NewLogger(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Service:    serviceName,
		Version:    cfg.Version,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	return cfg, logger, nil
}
