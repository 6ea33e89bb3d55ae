package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/qualifab/qcontrol/internal/qc"
)

func TestLeaderboard_EmptyFileIsEmptyArray(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/scores/scores.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestLeaderboard_SaveFillsScoreAndSorts(t *testing.T) {
	r := testRouter(t)

	// Legacy clients post without the score field.
	w := doJSON(t, r, http.MethodPost, "/scores/scores.json", qc.ScoreRecord{
		Day:          5,
		FinalBalance: 3200,
		Accuracy:     85,
		Victory:      true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saved SaveScoreResponse
	json.NewDecoder(w.Body).Decode(&saved)
	if !saved.Success {
		t.Error("expected success response")
	}

	doJSON(t, r, http.MethodPost, "/scores/scores.json", qc.ScoreRecord{
		Day:          3,
		FinalBalance: 4100,
		Accuracy:     90,
	})

	w = doJSON(t, r, http.MethodGet, "/scores/scores.json", nil)
	var records []qc.ScoreRecord
	json.NewDecoder(w.Body).Decode(&records)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Score != 4100 || records[1].Score != 3200 {
		t.Errorf("records not sorted by score: %v, %v", records[0].Score, records[1].Score)
	}
	for _, rec := range records {
		if rec.ID == "" {
			t.Error("saved record missing generated id")
		}
		if rec.Date == "" {
			t.Error("saved record missing generated date")
		}
	}
}

func TestLeaderboard_SaveRejectsBadBody(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/scores/scores.json", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestClearLeaderboard_DisabledWithoutHash(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodDelete, "/api/admin/scores", map[string]string{"password": "anything"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestClearLeaderboard_RequiresPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	r := testRouterAdmin(t, string(hash))

	doJSON(t, r, http.MethodPost, "/scores/scores.json", qc.ScoreRecord{FinalBalance: 1200})

	w := doJSON(t, r, http.MethodDelete, "/api/admin/scores", map[string]string{"password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/admin/scores", map[string]string{"password": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/scores/scores.json", nil)
	var records []qc.ScoreRecord
	json.NewDecoder(w.Body).Decode(&records)
	if len(records) != 0 {
		t.Errorf("expected cleared leaderboard, got %d records", len(records))
	}
}
