package server

import (
	"log/slog"
	"net/http"
)

// SessionResponse is returned by POST /api/sessions.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}

func handleCreateSession(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _, err := sessions.Create(r.Context())
		if err != nil {
			logger.Error("creating session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id})
	}
}
