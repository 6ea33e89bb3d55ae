package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qualifab/qcontrol/internal/engine"
)

// Registry owns the live engine instances, one per session, and rehydrates
// them from the snapshot store on first touch after a restart.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*engine.Engine

	store  *SessionStore
	broker *Broker
	logger *slog.Logger
	shift  time.Duration
}

func NewRegistry(store *SessionStore, broker *Broker, logger *slog.Logger, shift time.Duration) *Registry {
	return &Registry{
		engines: make(map[string]*engine.Engine),
		store:   store,
		broker:  broker,
		logger:  logger,
		shift:   shift,
	}
}

// Create starts a fresh session and persists its initial snapshot.
func (r *Registry) Create(ctx context.Context) (string, *engine.Engine, error) {
	id := uuid.NewString()
	eng := r.newEngine(id)

	if err := r.store.Save(ctx, id, eng.Snapshot()); err != nil {
		eng.Close()
		return "", nil, err
	}

	r.mu.Lock()
	r.engines[id] = eng
	r.mu.Unlock()
	return id, eng, nil
}

// Get returns the session's engine, loading it from the snapshot store when
// not in memory. A corrupt snapshot is logged and replaced with a fresh
// default state rather than surfaced as an error.
func (r *Registry) Get(ctx context.Context, id string) (*engine.Engine, error) {
	r.mu.RLock()
	eng, ok := r.engines[id]
	r.mu.RUnlock()
	if ok {
		return eng, nil
	}

	snap, err := r.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if eng, ok := r.engines[id]; ok {
		return eng, nil
	}

	eng = r.newEngine(id)
	if err != nil {
		r.logger.Warn("session snapshot unreadable, starting fresh", "session", id, "error", err)
	} else if restoreErr := eng.Restore(snap); restoreErr != nil {
		r.logger.Warn("session snapshot invalid, starting fresh", "session", id, "error", restoreErr)
	}
	r.engines[id] = eng
	return eng, nil
}

// Close stops every live engine's timers.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, eng := range r.engines {
		eng.Close()
		delete(r.engines, id)
	}
}

func (r *Registry) newEngine(id string) *engine.Engine {
	return engine.New(
		engine.WithShiftDuration(r.shift),
		engine.WithNotifier(brokerNotifier{broker: r.broker, sessionID: id}),
	)
}

// brokerNotifier forwards engine signals to the session's event stream.
type brokerNotifier struct {
	broker    *Broker
	sessionID string
}

func (n brokerNotifier) StateChanged() {
	n.broker.Publish(n.sessionID, GameEvent{Type: "state"})
}

func (n brokerNotifier) GameEnded(victory bool, finalBalance float64) {
	n.broker.Publish(n.sessionID, GameEvent{
		Type:         "gameOver",
		Victory:      victory,
		FinalBalance: finalBalance,
	})
}
