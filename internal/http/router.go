package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/game-catalog-service/internal/http/handlers"
	"github.com/preston-bernstein/game-catalog-service/internal/http/middleware"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
)

// APIPrefix is the mount point of every versioned route.
const APIPrefix = "/api/v1"

// RouterOptions configures the middleware wrapped around the API routes.
type RouterOptions struct {
	AdminToken  string
	CORSOrigins []string
	Logger      *slog.Logger
	Recorder    *metrics.Recorder
	Tracing     bool
}

// NewRouter registers the API routes and wraps them with request middleware.
func NewRouter(h *handlers.Handler, opts RouterOptions) nethttp.Handler {
	admin := func(next nethttp.HandlerFunc) nethttp.HandlerFunc {
		return handlers.RequireAdmin(opts.AdminToken, opts.Logger, next)
	}

	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET "+APIPrefix+"/healthz", h.Health)
	mux.HandleFunc("GET "+APIPrefix+"/ready", h.Ready)
	mux.HandleFunc("GET "+APIPrefix+"/games", h.ListGames)
	mux.HandleFunc("GET "+APIPrefix+"/games/{id}", h.GetGame)
	mux.HandleFunc("DELETE "+APIPrefix+"/games/{id}", admin(h.DeleteGame))
	mux.HandleFunc("GET "+APIPrefix+"/games/{id}/screenshots", h.Screenshots)
	mux.HandleFunc("POST "+APIPrefix+"/games/{id}/screenshots/sync", admin(h.RefreshScreenshots))
	mux.HandleFunc("POST "+APIPrefix+"/games/sync", admin(h.SyncGame))
	mux.HandleFunc("POST "+APIPrefix+"/games/sync/batch", admin(h.SyncBatch))
	mux.HandleFunc("GET "+APIPrefix+"/games/sync/search", admin(h.SearchUpstream))
	mux.HandleFunc("GET "+APIPrefix+"/genres", h.Genres)
	mux.HandleFunc("GET "+APIPrefix+"/genres/platforms", h.Platforms)
	mux.HandleFunc("GET "+APIPrefix+"/genres/age-ratings", h.AgeRatings)
	mux.HandleFunc("/", h.NotFound)

	var handler nethttp.Handler = mux
	handler = middleware.CORS(opts.CORSOrigins, handler)
	handler = middleware.LoggingMiddleware(opts.Logger, opts.Recorder, handler)
	if opts.Tracing {
		handler = middleware.Tracing(handler)
	}
	return handler
}
