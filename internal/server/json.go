package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qualifab/qcontrol/internal/engine"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine's invalid-operation sentinels onto HTTP
// statuses. Anything unrecognized is a 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrAlreadyDecided),
		errors.Is(err, engine.ErrDayRunning),
		errors.Is(err, engine.ErrNotRunning),
		errors.Is(err, engine.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, engine.ErrUnknownUpgrade),
		errors.Is(err, engine.ErrUnknownDecision):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
