package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/poller"
)

const pingTimeout = 2 * time.Second

// Pinger checks that the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to the catalog service.
type Handler struct {
	svc      *games.Service
	db       Pinger
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. db and statusFn are optional.
func NewHandler(svc *games.Service, db Pinger, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		db:       db,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports liveness.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

type readyResponse struct {
	Status    string           `json:"status"`
	Database  string           `json:"database"`
	Scheduler *schedulerStatus `json:"scheduler,omitempty"`
}

type schedulerStatus struct {
	ConsecutiveFailures int               `json:"consecutive_failures"`
	LastError           string            `json:"last_error,omitempty"`
	LastAttempt         *time.Time        `json:"last_attempt,omitempty"`
	LastSuccess         *time.Time        `json:"last_success,omitempty"`
	LastResult          games.BatchResult `json:"last_result"`
}

// Ready reports whether the store answers and the sync scheduler is not failing repeatedly.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	resp := readyResponse{Status: "ready", Database: "ok"}
	status := nethttp.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := h.db.Ping(ctx)
		cancel()
		if err != nil {
			logging.Warn(loggerFromContext(r, h.logger), "readiness ping failed", logging.FieldError, err)
			resp.Status = "not ready"
			resp.Database = err.Error()
			status = nethttp.StatusServiceUnavailable
		}
	}

	if h.statusFn != nil {
		st := h.statusFn()
		resp.Scheduler = newSchedulerStatus(st)
		if st.ConsecutiveFailures >= poller.MaxConsecutiveFailures {
			resp.Status = "not ready"
			status = nethttp.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp, h.logger)
}

func newSchedulerStatus(st poller.Status) *schedulerStatus {
	out := &schedulerStatus{
		ConsecutiveFailures: st.ConsecutiveFailures,
		LastError:           st.LastError,
		LastResult:          st.LastResult,
	}
	if !st.LastAttempt.IsZero() {
		out.LastAttempt = &st.LastAttempt
	}
	if !st.LastSuccess.IsZero() {
		out.LastSuccess = &st.LastSuccess
	}
	return out
}

// NotFound answers unmatched routes with the JSON error shape.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}
