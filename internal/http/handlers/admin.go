package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/game-catalog-service/internal/http/requestutil"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
)

// RequireAdmin guards sync endpoints with a bearer token. An empty token
// leaves the routes open.
func RequireAdmin(token string, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			logging.Warn(loggerFromContext(r, logger), "admin unauthorized",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="games"`)
			writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
			return
		}
		next(w, r)
	}
}

func authorized(r *http.Request, token string) bool {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) == 1
}
