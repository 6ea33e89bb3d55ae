package engine

import "errors"

// Invalid operations are recovered locally: the caller gets a failure
// signal and the session keeps going.
var (
	ErrDayRunning        = errors.New("shift already running")
	ErrNotRunning        = errors.New("no shift running")
	ErrGameOver          = errors.New("game is over")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrAlreadyDecided    = errors.New("product already decided")
	ErrUnknownDecision   = errors.New("unknown decision")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
