// Package engine implements the quality-control game state machine: day
// lifecycle, product generation, defect inspection, decision scoring and the
// economy. It owns all mutable game state; the HTTP layer drives it and
// renders its snapshots.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/qualifab/qcontrol/internal/qc"
)

// Phase is the engine's lifecycle state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhaseSettling Phase = "settling"
	PhaseGameOver Phase = "gameOver"
)

// Rand is the randomness source used for product and defect selection.
// Injectable so generation is reproducible in tests.
type Rand interface {
	Intn(n int) int
}

// Notifier receives engine signals. StateChanged fires exactly once per
// mutating operation, after the mutation is committed; GameEnded fires once
// when the game reaches victory or defeat. Both are called without the
// engine lock held.
type Notifier interface {
	StateChanged()
	GameEnded(victory bool, finalBalance float64)
}

type noopNotifier struct{}

func (noopNotifier) StateChanged()           {}
func (noopNotifier) GameEnded(bool, float64) {}

// Engine is a single game session. All exported methods are safe for
// concurrent use; mutation is serialized by the internal mutex.
type Engine struct {
	mu       sync.Mutex
	phase    Phase
	day      int
	money    float64
	timeLeft time.Duration
	products []qc.Product
	upgrades map[qc.UpgradeKind]int
	stats    qc.Stats
	history  []qc.ScoreRecord

	shiftStart time.Time
	shiftStop  chan struct{}
	focus      *focusState

	rng      Rand
	now      func() time.Time
	tick     time.Duration
	notifier Notifier
	shiftLen time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the default randomness source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithNow replaces the wall clock, for deterministic shift-timing tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNotifier registers the notification sink.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithShiftDuration overrides the 8 h shift, for manual testing.
func WithShiftDuration(d time.Duration) Option {
	return func(e *Engine) { e.shiftLen = d }
}

// WithTick overrides the 100 ms clock cadence.
func WithTick(d time.Duration) Option {
	return func(e *Engine) { e.tick = d }
}

// New returns an engine at day 1, idle, with the starting balance.
func New(opts ...Option) *Engine {
	e := &Engine{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		tick:     100 * time.Millisecond,
		notifier: noopNotifier{},
		shiftLen: qc.ShiftDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetLocked()
	return e
}

// resetLocked restores the initial game state. Score history survives.
func (e *Engine) resetLocked() {
	e.stopShiftClockLocked()
	e.stopFocusLocked()
	e.phase = PhaseIdle
	e.day = 1
	e.money = qc.StartingMoney
	e.timeLeft = e.shiftLen
	e.products = nil
	e.upgrades = map[qc.UpgradeKind]int{
		qc.UpgradeMagnifier:      0,
		qc.UpgradeSpeedDetection: 0,
		qc.UpgradeCaliper:        0,
		qc.UpgradeMultimeter:     0,
		qc.UpgradeUltrasound:     0,
	}
	e.stats = qc.Stats{}
}

// Reset cancels all timers and returns the engine to a fresh game.
// Upgrades and in-day state are cleared; the local score history is kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetLocked()
	e.mu.Unlock()
	e.notifier.StateChanged()
}

// Close stops any running timers. The engine is unusable for play afterwards
// only in the sense that no clock advances; state remains readable.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopShiftClockLocked()
	e.stopFocusLocked()
	e.mu.Unlock()
}

// Scores returns the local score history, newest first, at most 10 entries.
func (e *Engine) Scores() []qc.ScoreRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]qc.ScoreRecord, len(e.history))
	copy(out, e.history)
	return out
}

// productIndex returns the queue index of id, or -1.
func (e *Engine) productIndex(id string) int {
	for i := range e.products {
		if e.products[i].ID == id {
			return i
		}
	}
	return -1
}
