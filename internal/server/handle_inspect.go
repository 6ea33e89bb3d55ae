package server

import (
	"log/slog"
	"net/http"
	"time"
)

// InspectRequest reports accumulated attention time on a product.
type InspectRequest struct {
	ProductID   string `json:"productId"`
	AttentionMs int64  `json:"attentionMs"`
}

type InspectResponse struct {
	Revealed int `json:"revealed"`
}

func handleInspect(logger *slog.Logger, store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InspectRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ProductID == "" {
			writeError(w, http.StatusBadRequest, "productId is required")
			return
		}
		if req.AttentionMs < 0 {
			writeError(w, http.StatusBadRequest, "attentionMs must not be negative")
			return
		}

		eng := sessionEngine(r)
		revealed, err := eng.InspectProduct(req.ProductID, time.Duration(req.AttentionMs)*time.Millisecond)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if revealed > 0 {
			saveSession(r, logger, store, eng)
		}
		writeJSON(w, http.StatusOK, InspectResponse{Revealed: revealed})
	}
}

// FocusRequest points the engine-owned attention timer at a product.
// A null productId clears the focus.
type FocusRequest struct {
	ProductID *string `json:"productId"`
}

func handleFocus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FocusRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		eng := sessionEngine(r)
		if req.ProductID == nil || *req.ProductID == "" {
			eng.Blur()
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
		if err := eng.FocusProduct(*req.ProductID); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
