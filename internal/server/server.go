package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/config"
	httpserver "github.com/preston-bernstein/game-catalog-service/internal/http"
	"github.com/preston-bernstein/game-catalog-service/internal/http/handlers"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
	"github.com/preston-bernstein/game-catalog-service/internal/poller"
	"github.com/preston-bernstein/game-catalog-service/internal/tracing"
)

var (
	metricsSetup = metrics.Setup
	tracingSetup = tracing.Setup
)

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	catalog       *Catalog
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	consumer      Consumer
	metricsStop   func(context.Context) error
	tracingStop   func(context.Context) error
}

// New wires telemetry, the event bridge, the catalog and the HTTP server from cfg.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	tracingStop := buildTracing(ctx, cfg, logger)
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)

	releaseTelemetry := func() {
		if metricsShutdown != nil {
			_ = metricsShutdown(ctx)
		}
		if tracingStop != nil {
			_ = tracingStop(ctx)
		}
	}

	ev, err := buildEvents(cfg, logger, recorder)
	if err != nil {
		releaseTelemetry()
		return nil, err
	}
	catalog, err := OpenCatalog(ctx, cfg, ev.publisher, logger, recorder)
	if err != nil {
		_ = ev.publisher.Close()
		if ev.consumer != nil {
			_ = ev.consumer.Stop(ctx)
		}
		releaseTelemetry()
		return nil, err
	}

	var plr Poller
	if cfg.Sync.Enabled() {
		plr = poller.New(catalog.Service, syncRequest(cfg.Sync), logger, recorder, cfg.Sync.Interval)
	}
	var consumer Consumer
	if ev.consumer != nil {
		consumer = ev.consumer
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		catalog:       catalog,
		httpServer:    buildHTTPServer(cfg, catalog, logger, recorder, plr),
		metricsServer: metricsSrv,
		poller:        plr,
		consumer:      consumer,
		metricsStop:   metricsShutdown,
		tracingStop:   tracingStop,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, catalog *Catalog, httpSrv httpServer, plr Poller, consumer Consumer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		httpServer: httpSrv,
		poller:     plr,
		consumer:   consumer,
	}
}

func syncRequest(cfg config.SyncConfig) games.BatchRequest {
	return games.BatchRequest{
		StartPage:    cfg.StartPage,
		Pages:        cfg.Pages,
		PageSize:     cfg.PageSize,
		LoadDetails:  cfg.LoadDetails,
		DetailsLimit: cfg.DetailsLimit,
	}
}

func buildHTTPServer(cfg config.Config, catalog *Catalog, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	handler := handlers.NewHandler(catalog.Service, catalog.Store, logger, statusFn)
	router := httpserver.NewRouter(handler, httpserver.RouterOptions{
		AdminToken:  cfg.AdminToken,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Recorder:    recorder,
		Tracing:     cfg.Tracing.Enabled,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the background loops and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.consumer != nil {
		s.consumer.Start(ctx)
	}
	if s.poller != nil {
		s.poller.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown stops intake first (consumer, poller, http), then releases the catalog and telemetry.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.consumer != nil {
		if err := s.consumer.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop event consumer", err)
		}
	}

	if s.poller != nil {
		if err := s.poller.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop poller", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if err := s.catalog.Close(); err != nil {
		logging.Warn(s.logger, "catalog close failed", slog.Any(logging.FieldError, err))
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", slog.Any(logging.FieldError, err))
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", slog.Any(logging.FieldError, err))
		}
	}

	if s.tracingStop != nil {
		if err := s.tracingStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "tracing shutdown failed", slog.Any(logging.FieldError, err))
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildTracing(ctx context.Context, cfg config.Config, logger *slog.Logger) func(context.Context) error {
	stop, err := tracingSetup(ctx, tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		ServiceName:    cfg.Metrics.ServiceName,
		ServiceVersion: cfg.Version,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logging.Warn(logger, "tracing setup failed, continuing without traces", slog.Any(logging.FieldError, err))
		return nil
	}
	return stop
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any(logging.FieldError, err))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", slog.Any(logging.FieldError, err))
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
