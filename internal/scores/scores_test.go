package scores

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/qualifab/qcontrol/internal/qc"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "scores", "scores.json"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s
}

func TestList_MissingFileIsEmptyLeaderboard(t *testing.T) {
	s := newTestStore(t)

	records, err := s.List()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty leaderboard, got %d records", len(records))
	}
	if records == nil {
		t.Fatal("expected non-nil empty slice")
	}
}

func TestAdd_SortsDescendingByScore(t *testing.T) {
	s := newTestStore(t)

	for _, score := range []float64{300, 900, 600} {
		if err := s.Add(qc.ScoreRecord{Day: 5, FinalBalance: score, Score: score}); err != nil {
			t.Fatalf("adding record: %v", err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	want := []float64{900, 600, 300}
	for i, w := range want {
		if records[i].Score != w {
			t.Errorf("records[%d].Score = %v, want %v", i, records[i].Score, w)
		}
	}
}

func TestAdd_TruncatesToCap(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < MaxRecords+5; i++ {
		if err := s.Add(qc.ScoreRecord{Score: float64(i)}); err != nil {
			t.Fatalf("adding record %d: %v", i, err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(records) != MaxRecords {
		t.Fatalf("len = %d, want %d", len(records), MaxRecords)
	}
	// The lowest scores fell off the bottom.
	if records[MaxRecords-1].Score != 5 {
		t.Errorf("last score = %v, want 5", records[MaxRecords-1].Score)
	}
}

func TestWrite_FileIsPrettyPrintedArray(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add(qc.ScoreRecord{Date: "2026-03-02T10:00:00Z", Day: 5, Score: 720}); err != nil {
		t.Fatalf("adding record: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	var records []qc.ScoreRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("file is not a JSON array: %v", err)
	}
	if want := "[\n  {"; string(data[:len(want)]) != want {
		t.Errorf("file is not pretty-printed: %q...", data[:len(want)])
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add(qc.ScoreRecord{Score: 100}); err != nil {
		t.Fatalf("adding record: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clearing: %v", err)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty leaderboard after clear, got %d", len(records))
	}
}

func TestList_CorruptFileIsAnError(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	if _, err := s.List(); err == nil {
		t.Fatal("expected an error for a corrupt scores file")
	}
}
