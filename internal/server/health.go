package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/qualifab/qcontrol/internal/scores"
)

// HealthResponse maps component name to status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func handleHealth(logger *slog.Logger, sessionStore *SessionStore, scoreStore *scores.Store) http.HandlerFunc {
	type result struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]result{
			"sessions": {Status: "ok"},
			"scores":   {Status: "ok"},
		}
		status := http.StatusOK

		if err := sessionStore.Ping(ctx); err != nil {
			logger.Error("health check failed", "name", "sessions", "error", err)
			checks["sessions"] = result{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		// The scores file may not exist yet; its directory must.
		if _, err := os.Stat(filepath.Dir(scoreStore.Path())); err != nil {
			logger.Error("health check failed", "name", "scores", "error", err)
			checks["scores"] = result{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, checks)
	}
}
