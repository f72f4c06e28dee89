package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
)

// ListGames serves GET /games.
func (h *Handler) ListGames(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	resp, err := h.svc.ListGames(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Debug(logger, "served games", slog.Int(logging.FieldCount, len(resp.Items)), slog.Int64("total", resp.Total))
	writeJSON(w, nethttp.StatusOK, resp, logger)
}

// GetGame serves GET /games/{id}; id may also be a slug.
func (h *Handler) GetGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	game, err := h.svc.GetGame(r.Context(), strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, games.NewGameDetail(game), logger)
}

// DeleteGame serves DELETE /games/{id}; id may also be a slug.
func (h *Handler) DeleteGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	if err := h.svc.DeleteGame(r.Context(), strings.TrimSpace(r.PathValue("id"))); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

// Screenshots serves GET /games/{id}/screenshots.
func (h *Handler) Screenshots(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	shots, err := h.svc.Screenshots(r.Context(), strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, games.NewScreenshotList(shots), logger)
}

// Genres serves GET /genres.
func (h *Handler) Genres(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeNames(w, r, "genres", h.svc.Genres)
}

// Platforms serves GET /genres/platforms.
func (h *Handler) Platforms(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeNames(w, r, "platforms", h.svc.Platforms)
}

// AgeRatings serves GET /genres/age-ratings.
func (h *Handler) AgeRatings(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeNames(w, r, "age_ratings", h.svc.AgeRatings)
}

// writeNames renders {<key>: [...], "total": n}. Empty lists encode as [].
func (h *Handler) writeNames(w nethttp.ResponseWriter, r *nethttp.Request, key string, list func(context.Context) ([]string, error)) {
	logger := loggerFromContext(r, h.logger)
	names, err := list(r.Context())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{key: names, "total": len(names)}, logger)
}
