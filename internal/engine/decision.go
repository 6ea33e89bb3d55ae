package engine

import (
	"math"

	"github.com/qualifab/qcontrol/internal/qc"
)

// DecisionResult is the scored outcome of a player verdict. FeedbackKey is a
// localization key; the engine holds no display text.
type DecisionResult struct {
	Correct     bool    `json:"correct"`
	FeedbackKey string  `json:"feedbackKey"`
	Revenue     float64 `json:"revenue"`
}

// ValidateDecision scores an accept/reject/doubt verdict against the
// product's ground truth, credits revenue and updates the day's accuracy
// stats. A product takes exactly one decision; a second call fails with
// ErrAlreadyDecided and counts nothing.
func (e *Engine) ValidateDecision(productID string, decision qc.Decision) (DecisionResult, error) {
	e.mu.Lock()
	res, err := e.decideLocked(productID, decision)
	e.mu.Unlock()
	if err != nil {
		return DecisionResult{}, err
	}
	e.notifier.StateChanged()
	return res, nil
}

func (e *Engine) decideLocked(productID string, decision qc.Decision) (DecisionResult, error) {
	if e.phase != PhaseRunning {
		return DecisionResult{}, ErrNotRunning
	}
	i := e.productIndex(productID)
	if i < 0 {
		return DecisionResult{}, ErrUnknownProduct
	}
	p := &e.products[i]
	if p.Inspected {
		return DecisionResult{}, ErrAlreadyDecided
	}

	hasHidden := false
	hasRevealed := false
	for _, d := range p.Defects {
		if d.Revealed {
			hasRevealed = true
		} else {
			hasHidden = true
		}
	}

	var res DecisionResult
	switch decision {
	case qc.DecisionGood:
		// Correct only when the product is truly clean.
		res.Correct = !hasHidden && !hasRevealed
		switch {
		case res.Correct:
			res.FeedbackKey = "feedback.correct"
		case hasHidden:
			res.FeedbackKey = "feedback.missed"
		default:
			res.FeedbackKey = "feedback.falseAlarm"
		}
		if res.Correct {
			res.Revenue = p.Value
		}
	case qc.DecisionReject:
		res.Correct = hasHidden || hasRevealed
		if res.Correct {
			res.FeedbackKey = "feedback.correct"
			res.Revenue = 0.8 * p.Value
		} else {
			res.FeedbackKey = "feedback.falseAlarm"
		}
	case qc.DecisionDoubt:
		// Deliberately the narrowest condition: some defects found, some
		// still hidden.
		res.Correct = hasRevealed && hasHidden
		res.FeedbackKey = "feedback.correct"
		if res.Correct {
			res.Revenue = 0.5 * p.Value
		}
	default:
		return DecisionResult{}, ErrUnknownDecision
	}

	e.stats.Inspected++
	if res.Correct {
		e.stats.Correct++
	} else {
		e.stats.Incorrect++
	}
	e.stats.Accuracy = int(math.Round(100 * float64(e.stats.Correct) / float64(e.stats.Inspected)))

	e.money += res.Revenue
	p.Inspected = true
	accepted := decision == qc.DecisionGood
	p.Accepted = &accepted

	// The decided product no longer accrues attention.
	if e.focus != nil && e.focus.productID == productID {
		e.stopFocusLocked()
	}
	return res, nil
}
