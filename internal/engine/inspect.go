package engine

import (
	"math"
	"time"

	"github.com/qualifab/qcontrol/internal/qc"
)

// adjustedInspectionTime applies equipment modifiers to a base detection
// time: -50% per speedDetection level, -30% per ultrasound level, floored at
// 1.5 s. Magnifier, caliper and multimeter levels are tracked but do not
// enter the formula.
func (e *Engine) adjustedInspectionTime(base time.Duration) time.Duration {
	t := float64(base)
	t *= math.Pow(0.5, float64(e.upgrades[qc.UpgradeSpeedDetection]))
	t *= math.Pow(0.7, float64(e.upgrades[qc.UpgradeUltrasound]))
	if t < float64(qc.MinInspectionTime) {
		return qc.MinInspectionTime
	}
	return time.Duration(t)
}

// InspectProduct reveals every still-hidden defect of the product once the
// accumulated attention time reaches the adjusted detection threshold.
// Returns the count of defects newly revealed by this call. Reveals are
// monotonic: repeated calls, with any attention value, never hide a defect.
func (e *Engine) InspectProduct(productID string, attention time.Duration) (int, error) {
	e.mu.Lock()
	n, err := e.inspectLocked(productID, attention)
	e.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.notifier.StateChanged()
	}
	return n, nil
}

func (e *Engine) inspectLocked(productID string, attention time.Duration) (int, error) {
	if e.phase != PhaseRunning {
		return 0, ErrNotRunning
	}
	i := e.productIndex(productID)
	if i < 0 {
		return 0, ErrUnknownProduct
	}

	// Single global threshold: enough attention reveals all hidden defects
	// of the product at once.
	threshold := e.adjustedInspectionTime(qc.InspectionBaseTime)
	if attention < threshold {
		return 0, nil
	}

	revealed := 0
	defects := e.products[i].Defects
	for j := range defects {
		if !defects[j].Revealed {
			defects[j].Revealed = true
			revealed++
		}
	}
	return revealed, nil
}

// focusState tracks the single active inspection-progress timer.
type focusState struct {
	productID string
	start     time.Time
	stop      chan struct{}
}

// FocusProduct points the player's attention at a product: the engine starts
// a progress timer that accrues attention time and reveals defects as the
// threshold is crossed. Focusing a different product first cancels the
// previous timer, so an abandoned product stops accruing attention.
func (e *Engine) FocusProduct(productID string) error {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return ErrNotRunning
	}
	i := e.productIndex(productID)
	if i < 0 {
		e.mu.Unlock()
		return ErrUnknownProduct
	}
	if e.products[i].Inspected {
		e.mu.Unlock()
		return ErrAlreadyDecided
	}

	e.stopFocusLocked()
	stop := make(chan struct{})
	e.focus = &focusState{productID: productID, start: e.now(), stop: stop}
	go e.runFocus(productID, stop)
	e.mu.Unlock()
	return nil
}

// Blur cancels the active inspection-progress timer, if any.
func (e *Engine) Blur() {
	e.mu.Lock()
	e.stopFocusLocked()
	e.mu.Unlock()
}

func (e *Engine) stopFocusLocked() {
	if e.focus != nil {
		close(e.focus.stop)
		e.focus = nil
	}
}

func (e *Engine) runFocus(productID string, stop chan struct{}) {
	t := time.NewTicker(e.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if e.tickFocus(productID, stop) {
				return
			}
		}
	}
}

// tickFocus feeds accumulated attention time into the reveal check.
// Returns true when the timer is stale and should exit.
func (e *Engine) tickFocus(productID string, stop chan struct{}) bool {
	e.mu.Lock()
	if e.focus == nil || e.focus.stop != stop {
		e.mu.Unlock()
		return true
	}
	attention := e.now().Sub(e.focus.start)
	n, err := e.inspectLocked(productID, attention)
	e.mu.Unlock()

	if err != nil {
		return true
	}
	if n > 0 {
		e.notifier.StateChanged()
	}
	return false
}
