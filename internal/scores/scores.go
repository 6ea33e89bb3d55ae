// Package scores persists the leaderboard to a single pretty-printed JSON
// array file. A missing file reads as an empty leaderboard.
package scores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/qualifab/qcontrol/internal/qc"
)

// MaxRecords is the leaderboard cap.
const MaxRecords = 100

// Store is a file-backed leaderboard. Writes are whole-file atomic: the new
// array is written to a temp file and renamed over the old one.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates the parent directory if needed and returns a store
// persisting to path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating scores directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns all records, best score first. A missing file is an empty
// leaderboard, not an error.
func (s *Store) List() ([]qc.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Add appends a record, re-sorts descending by score and truncates to
// MaxRecords before persisting.
func (s *Store) Add(rec qc.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return err
	}
	records = append(records, rec)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	return s.writeLocked(records)
}

// Clear removes every record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked([]qc.ScoreRecord{})
}

func (s *Store) readLocked() ([]qc.ScoreRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []qc.ScoreRecord{}, nil
		}
		return nil, fmt.Errorf("reading scores file: %w", err)
	}
	var records []qc.ScoreRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing scores file: %w", err)
	}
	return records, nil
}

func (s *Store) writeLocked(records []qc.ScoreRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing scores file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing scores file: %w", err)
	}
	return nil
}
