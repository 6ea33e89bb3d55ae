package server

import (
	"log/slog"
	"net/http"

	"github.com/qualifab/qcontrol/internal/qc"
)

type UpgradeRequest struct {
	Kind string `json:"kind"`
}

type UpgradeResponse struct {
	Kind  string  `json:"kind"`
	Level int     `json:"level"`
	Cost  float64 `json:"cost"`
}

func handleBuyUpgrade(logger *slog.Logger, store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpgradeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		kind := qc.UpgradeKind(req.Kind)
		eng := sessionEngine(r)
		if err := eng.BuyUpgrade(kind); err != nil {
			writeEngineError(w, err)
			return
		}
		saveSession(r, logger, store, eng)

		writeJSON(w, http.StatusOK, UpgradeResponse{
			Kind:  req.Kind,
			Level: eng.UpgradeLevel(kind),
			Cost:  qc.UpgradeCosts[kind],
		})
	}
}
