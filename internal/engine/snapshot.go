package engine

import (
	"errors"

	"github.com/qualifab/qcontrol/internal/qc"
)

// Snapshot is a read-only mirror of the full game state, used both as the
// API state response and as the persisted session document.
type Snapshot struct {
	Phase    Phase                  `json:"phase"`
	Day      int                    `json:"day"`
	Money    float64                `json:"money"`
	TimeLeft int64                  `json:"timeLeftMs"`
	Products []qc.Product           `json:"products"`
	Upgrades map[qc.UpgradeKind]int `json:"upgrades"`
	Stats    qc.Stats               `json:"stats"`
	History  []qc.ScoreRecord       `json:"history"`
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	products := make([]qc.Product, len(e.products))
	for i, p := range e.products {
		products[i] = p
		products[i].Defects = append([]qc.Defect(nil), p.Defects...)
		if p.Accepted != nil {
			accepted := *p.Accepted
			products[i].Accepted = &accepted
		}
	}
	upgrades := make(map[qc.UpgradeKind]int, len(e.upgrades))
	for k, v := range e.upgrades {
		upgrades[k] = v
	}
	history := make([]qc.ScoreRecord, len(e.history))
	copy(history, e.history)

	return Snapshot{
		Phase:    e.phase,
		Day:      e.day,
		Money:    e.money,
		TimeLeft: e.timeLeft.Milliseconds(),
		Products: products,
		Upgrades: upgrades,
		Stats:    e.stats,
		History:  history,
	}
}

var errBadSnapshot = errors.New("invalid snapshot")

// Restore replaces the engine state with a saved snapshot. Timers do not
// survive a restore: a snapshot taken mid-shift comes back idle at the same
// day with a full clock, awaiting the next StartDay. An invalid snapshot is
// rejected so the caller can fall back to a fresh state.
func (e *Engine) Restore(s Snapshot) error {
	if s.Day < 1 || s.Day > qc.MaxDays {
		return errBadSnapshot
	}
	switch s.Phase {
	case PhaseIdle, PhaseRunning, PhaseSettling, PhaseGameOver:
	default:
		return errBadSnapshot
	}

	e.mu.Lock()
	e.stopShiftClockLocked()
	e.stopFocusLocked()

	e.day = s.Day
	e.money = s.Money
	e.stats = s.Stats
	e.history = append([]qc.ScoreRecord(nil), s.History...)

	e.upgrades = map[qc.UpgradeKind]int{
		qc.UpgradeMagnifier:      0,
		qc.UpgradeSpeedDetection: 0,
		qc.UpgradeCaliper:        0,
		qc.UpgradeMultimeter:     0,
		qc.UpgradeUltrasound:     0,
	}
	for k, v := range s.Upgrades {
		if v < 0 {
			v = 0
		}
		e.upgrades[k] = v
	}

	if s.Phase == PhaseGameOver {
		e.phase = PhaseGameOver
		e.products = nil
		e.timeLeft = 0
	} else {
		e.phase = PhaseIdle
		e.products = nil
		e.timeLeft = e.shiftLen
	}
	e.mu.Unlock()

	e.notifier.StateChanged()
	return nil
}
