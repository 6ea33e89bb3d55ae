package engine

import (
	"time"

	"github.com/qualifab/qcontrol/internal/qc"
)

// Outcome is the result of a day settlement.
type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeVictory  Outcome = "victory"
	OutcomeDefeat   Outcome = "defeat"
)

// DaySummary is returned by EndDay. Salary and MinQuota are display figures
// the settlement never applies to the balance; only Charges is subtracted.
type DaySummary struct {
	Day      int     `json:"day"`
	Charges  float64 `json:"charges"`
	Salary   float64 `json:"salary"`
	MinQuota float64 `json:"minQuota"`
	Balance  float64 `json:"balance"`
	Accuracy int     `json:"accuracy"`
	Outcome  Outcome `json:"outcome"`
}

// StartDay generates the day's product queue, resets the shift clock and
// starts it. Fails while a shift is running or after game over.
func (e *Engine) StartDay() error {
	e.mu.Lock()
	switch e.phase {
	case PhaseRunning:
		e.mu.Unlock()
		return ErrDayRunning
	case PhaseGameOver:
		e.mu.Unlock()
		return ErrGameOver
	}

	e.phase = PhaseRunning
	e.timeLeft = e.shiftLen
	e.shiftStart = e.now()
	e.products = e.generateProducts(e.day)
	e.startShiftClockLocked()
	e.mu.Unlock()

	e.notifier.StateChanged()
	return nil
}

// EndDay settles the running day: stops all timers, applies daily charges,
// then evaluates defeat before victory (a bankrupt final day still loses).
func (e *Engine) EndDay() (DaySummary, error) {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return DaySummary{}, ErrNotRunning
	}
	sum, ended, victory, balance := e.endDayLocked()
	e.mu.Unlock()

	e.notifier.StateChanged()
	if ended {
		e.notifier.GameEnded(victory, balance)
	}
	return sum, nil
}

// endDayLocked performs settlement. Caller holds the lock and is responsible
// for emitting StateChanged and, when ended is true, GameEnded.
func (e *Engine) endDayLocked() (sum DaySummary, ended, victory bool, balance float64) {
	e.stopShiftClockLocked()
	e.stopFocusLocked()
	e.phase = PhaseSettling

	e.money -= qc.DailyCharges
	sum = DaySummary{
		Day:      e.day,
		Charges:  qc.DailyCharges,
		Salary:   qc.DailySalary,
		MinQuota: qc.MinQuota,
		Balance:  e.money,
		Accuracy: e.stats.Accuracy,
	}

	// Ordering contract: bankruptcy beats reaching the final day.
	if e.money <= 0 {
		sum.Outcome = OutcomeDefeat
		e.gameOverLocked(false)
		return sum, true, false, e.money
	}
	if e.day >= qc.MaxDays {
		sum.Outcome = OutcomeVictory
		e.gameOverLocked(true)
		return sum, true, true, e.money
	}

	sum.Outcome = OutcomeContinue
	e.day++
	e.stats = qc.Stats{}
	e.products = nil
	e.timeLeft = e.shiftLen
	e.phase = PhaseIdle
	return sum, false, false, 0
}

// gameOverLocked records the final score into the local history
// (newest first, capped at 10).
func (e *Engine) gameOverLocked(victory bool) {
	e.phase = PhaseGameOver
	rec := qc.ScoreRecord{
		Date:         e.now().Format(time.RFC3339),
		Day:          e.day,
		FinalBalance: e.money,
		Accuracy:     e.stats.Accuracy,
		Victory:      victory,
		Score:        e.money,
	}
	e.history = append([]qc.ScoreRecord{rec}, e.history...)
	if len(e.history) > 10 {
		e.history = e.history[:10]
	}
}

// startShiftClockLocked replaces any running shift clock with a fresh one.
// At most one shift-clock timer exists at any time.
func (e *Engine) startShiftClockLocked() {
	e.stopShiftClockLocked()
	stop := make(chan struct{})
	e.shiftStop = stop
	go e.runShiftClock(stop)
}

func (e *Engine) stopShiftClockLocked() {
	if e.shiftStop != nil {
		close(e.shiftStop)
		e.shiftStop = nil
	}
}

func (e *Engine) runShiftClock(stop chan struct{}) {
	t := time.NewTicker(e.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if e.tickShift(stop) {
				return
			}
		}
	}
}

// tickShift recomputes timeLeft from elapsed wall time and settles the day
// when the countdown hits zero. Returns true when the clock should stop.
func (e *Engine) tickShift(stop chan struct{}) bool {
	e.mu.Lock()
	if e.phase != PhaseRunning || e.shiftStop != stop {
		e.mu.Unlock()
		return true
	}

	elapsed := e.now().Sub(e.shiftStart)
	left := e.shiftLen - elapsed
	if left < 0 {
		left = 0
	}
	e.timeLeft = left

	if left == 0 {
		_, ended, victory, balance := e.endDayLocked()
		e.mu.Unlock()
		e.notifier.StateChanged()
		if ended {
			e.notifier.GameEnded(victory, balance)
		}
		return true
	}

	e.mu.Unlock()
	e.notifier.StateChanged()
	return false
}
