package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qualifab/qcontrol/internal/qc"
	"github.com/qualifab/qcontrol/internal/scores"
)

// handleLocalScores serves the session's own history: top 10, newest first.
func handleLocalScores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng := sessionEngine(r)
		writeJSON(w, http.StatusOK, eng.Scores())
	}
}

// handleListLeaderboard serves the shared leaderboard file. A missing file
// is an empty array.
func handleListLeaderboard(logger *slog.Logger, store *scores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.List()
		if err != nil {
			logger.Error("reading leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// SaveScoreResponse mirrors the legacy persistence contract.
type SaveScoreResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleSaveScore appends a score record, sorts descending by score and
// truncates to 100. Clients historically omitted the score field; it is
// filled from finalBalance so the sort key is never systematically zero.
func handleSaveScore(logger *slog.Logger, store *scores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec qc.ScoreRecord
		if err := readJSON(r, &rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if rec.Score == 0 {
			rec.Score = rec.FinalBalance
		}
		if rec.Date == "" {
			rec.Date = time.Now().Format(time.RFC3339)
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}

		if err := store.Add(rec); err != nil {
			logger.Error("saving score", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, SaveScoreResponse{Success: true, Message: "Score saved!"})
	}
}

// handleClearLeaderboard wipes the leaderboard. Guarded by the admin
// password; disabled entirely when no hash is configured.
func handleClearLeaderboard(logger *slog.Logger, store *scores.Store, passwordHash string) http.HandlerFunc {
	type request struct {
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if passwordHash == "" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		var req request
		if err := readJSON(r, &req); err != nil || req.Password == "" {
			writeError(w, http.StatusBadRequest, "password is required")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := store.Clear(); err != nil {
			logger.Error("clearing leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, SaveScoreResponse{Success: true, Message: "Leaderboard cleared"})
	}
}
