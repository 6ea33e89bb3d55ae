package engine

import (
	"sync"
	"time"

	"github.com/qualifab/qcontrol/internal/qc"
)

// seqRand replays a fixed sequence, for deterministic generation.
type seqRand struct {
	seq []int
	i   int
}

func (r *seqRand) Intn(n int) int {
	if len(r.seq) == 0 {
		return 0
	}
	v := r.seq[r.i%len(r.seq)]
	r.i++
	return v % n
}

// zeroRand always picks the first catalog entry: cable products, scratch
// defects.
func zeroRand() Rand { return &seqRand{seq: []int{0}} }

// fakeClock is a settable wall clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// recordingNotifier counts StateChanged calls and captures GameEnded.
type recordingNotifier struct {
	mu           sync.Mutex
	stateChanges int
	ended        bool
	victory      bool
	finalBalance float64
}

func (n *recordingNotifier) StateChanged() {
	n.mu.Lock()
	n.stateChanges++
	n.mu.Unlock()
}

func (n *recordingNotifier) GameEnded(victory bool, finalBalance float64) {
	n.mu.Lock()
	n.ended = true
	n.victory = victory
	n.finalBalance = finalBalance
	n.mu.Unlock()
}

func (n *recordingNotifier) snapshot() (int, bool, bool, float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stateChanges, n.ended, n.victory, n.finalBalance
}

// newRunningEngine builds an engine mid-shift with a handcrafted product
// queue, bypassing the shift clock.
func newRunningEngine(products ...qc.Product) *Engine {
	e := New(WithRand(zeroRand()), WithTick(time.Hour))
	e.phase = PhaseRunning
	e.products = products
	return e
}

func cleanProduct(id string) qc.Product {
	return qc.Product{ID: id, Type: qc.ProductCable, NameKey: "screen.game.product.cable", Value: 80}
}

func defectiveProduct(id string, revealed, hidden int) qc.Product {
	p := cleanProduct(id)
	for i := 0; i < revealed; i++ {
		p.Defects = append(p.Defects, qc.Defect{NameKey: "defect.scratch", Severity: qc.SeverityLow, Value: 10, Revealed: true})
	}
	for i := 0; i < hidden; i++ {
		p.Defects = append(p.Defects, qc.Defect{NameKey: "defect.crack", Severity: qc.SeverityMedium, Value: 50})
	}
	return p
}
