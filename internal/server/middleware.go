package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qualifab/qcontrol/internal/engine"
)

type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
	ctxKeyEngine
)

// sessionMiddleware resolves {session} to a live engine and stashes both the
// ID and the engine in the request context.
func sessionMiddleware(sessions *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "session")
			if id == "" {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			eng, err := sessions.Get(r.Context(), id)
			if err != nil {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySessionID, id)
			ctx = context.WithValue(ctx, ctxKeyEngine, eng)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionID(r *http.Request) string {
	return r.Context().Value(ctxKeySessionID).(string)
}

func sessionEngine(r *http.Request) *engine.Engine {
	return r.Context().Value(ctxKeyEngine).(*engine.Engine)
}

// saveSession persists the engine's snapshot after a mutating request. A
// persistence failure is logged, not surfaced: the in-memory game goes on.
func saveSession(r *http.Request, logger *slog.Logger, store *SessionStore, eng *engine.Engine) {
	id := sessionID(r)
	if err := store.Save(r.Context(), id, eng.Snapshot()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("saving session snapshot", "session", id, "error", err)
	}
}
