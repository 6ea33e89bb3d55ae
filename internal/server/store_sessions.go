package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qualifab/qcontrol/internal/engine"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists one engine snapshot per session to SQLite, so a
// session survives a server restart.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts the session's snapshot document.
func (s *SessionStore) Save(ctx context.Context, sessionID string, snap engine.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, snapshot) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, sessionID, string(doc))
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return nil
}

// Load returns the saved snapshot for a session. ErrSessionNotFound when the
// session was never saved; a decode failure is returned as-is so the caller
// can fall back to a fresh state.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (engine.Snapshot, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot FROM sessions WHERE id = ?
	`, sessionID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Snapshot{}, ErrSessionNotFound
	}
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	return snap, nil
}

// Ping reports database liveness, for health checks.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
