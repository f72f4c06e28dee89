package handlers

import (
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
)

// SyncGame serves POST /games/sync.
func (h *Handler) SyncGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	var req games.SyncRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	game, err := h.svc.SyncGame(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "game synced via api",
		slog.String(logging.FieldGameID, game.ID),
		slog.String(logging.FieldSlug, game.Slug),
	)
	writeJSON(w, nethttp.StatusOK, games.NewGameDetail(game), logger)
}

// SyncBatch serves POST /games/sync/batch. Omitted fields take the batch defaults.
func (h *Handler) SyncBatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	req := games.DefaultBatchRequest()
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	res, err := h.svc.SyncBatch(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, res, logger)
}

// RefreshScreenshots serves POST /games/{id}/screenshots/sync.
func (h *Handler) RefreshScreenshots(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	shots, err := h.svc.RefreshScreenshots(r.Context(), strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, games.NewScreenshotList(shots), logger)
}

// SearchUpstream serves GET /games/sync/search?q=&page=&page_size=. Nothing is stored.
func (h *Handler) SearchUpstream(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	values := r.URL.Query()
	page, err := optionalInt(values, "page")
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	size, err := optionalInt(values, "page_size")
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	res, err := h.svc.SearchUpstream(r.Context(), strings.TrimSpace(values.Get("q")), derefInt(page), derefInt(size))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Debug(logger, "upstream search served", slog.Int(logging.FieldCount, len(res.Items)), slog.Int64("total", res.Total))
	writeJSON(w, nethttp.StatusOK, res, logger)
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
