package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualifab/qcontrol/internal/qc"
)

func TestStartDay_GeneratesQueueAndRuns(t *testing.T) {
	n := &recordingNotifier{}
	e := New(WithRand(zeroRand()), WithTick(time.Hour), WithNotifier(n))
	t.Cleanup(e.Close)

	require.NoError(t, e.StartDay())

	snap := e.Snapshot()
	assert.Equal(t, PhaseRunning, snap.Phase)
	assert.Len(t, snap.Products, 7, "5 + 2*1 products on day 1")
	assert.Equal(t, qc.ShiftDuration.Milliseconds(), snap.TimeLeft)

	changes, _, _, _ := n.snapshot()
	assert.Equal(t, 1, changes, "exactly one notification per mutation")
}

func TestStartDay_Preconditions(t *testing.T) {
	e := New(WithRand(zeroRand()), WithTick(time.Hour))
	t.Cleanup(e.Close)

	require.NoError(t, e.StartDay())
	assert.ErrorIs(t, e.StartDay(), ErrDayRunning)

	e.mu.Lock()
	e.phase = PhaseGameOver
	e.mu.Unlock()
	assert.ErrorIs(t, e.StartDay(), ErrGameOver)
}

func TestEndDay_AppliesChargesAndContinues(t *testing.T) {
	e := newRunningEngine(cleanProduct("product-0"))
	e.money = 1000

	sum, err := e.EndDay()
	require.NoError(t, err)

	assert.Equal(t, OutcomeContinue, sum.Outcome)
	assert.Equal(t, 600.0, sum.Balance, "1000 - 400 daily charges")
	assert.Equal(t, qc.DailySalary, sum.Salary, "salary is a display figure only")

	snap := e.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, 2, snap.Day)
	assert.Equal(t, 600.0, snap.Money)
	assert.Empty(t, snap.Products, "queue discarded at day end")
	assert.Equal(t, qc.Stats{}, snap.Stats, "stats reset each day")
}

func TestEndDay_DefeatWhenBroke(t *testing.T) {
	n := &recordingNotifier{}
	e := newRunningEngine()
	e.notifier = n
	e.money = 300 // 300 - 400 = -100

	sum, err := e.EndDay()
	require.NoError(t, err)

	assert.Equal(t, OutcomeDefeat, sum.Outcome)
	assert.Equal(t, PhaseGameOver, e.Snapshot().Phase)

	_, ended, victory, balance := n.snapshot()
	assert.True(t, ended)
	assert.False(t, victory)
	assert.Equal(t, -100.0, balance)
}

func TestEndDay_DefeatBeatsVictoryOnFinalDay(t *testing.T) {
	// Day 5 with money that goes non-positive after charges must lose,
	// even though day >= MAX_DAYS would also hold.
	e := newRunningEngine()
	e.day = qc.MaxDays
	e.money = 50

	sum, err := e.EndDay()
	require.NoError(t, err)

	assert.Equal(t, OutcomeDefeat, sum.Outcome)
	require.Len(t, e.history, 1)
	assert.False(t, e.history[0].Victory)
}

func TestEndDay_VictoryOnFinalDay(t *testing.T) {
	n := &recordingNotifier{}
	e := newRunningEngine()
	e.notifier = n
	e.day = qc.MaxDays
	e.money = 3000
	e.stats = qc.Stats{Inspected: 4, Correct: 3, Incorrect: 1, Accuracy: 75}

	sum, err := e.EndDay()
	require.NoError(t, err)

	assert.Equal(t, OutcomeVictory, sum.Outcome)

	_, ended, victory, balance := n.snapshot()
	assert.True(t, ended)
	assert.True(t, victory)
	assert.Equal(t, 2600.0, balance)

	require.Len(t, e.history, 1)
	rec := e.history[0]
	assert.Equal(t, qc.MaxDays, rec.Day)
	assert.Equal(t, 2600.0, rec.FinalBalance)
	assert.Equal(t, 75, rec.Accuracy)
	assert.True(t, rec.Victory)
	assert.Equal(t, rec.FinalBalance, rec.Score)
}

func TestEndDay_RequiresRunningShift(t *testing.T) {
	e := New(WithRand(zeroRand()), WithTick(time.Hour))

	_, err := e.EndDay()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestShiftClock_ExpiryForcesDayEnd(t *testing.T) {
	clock := newFakeClock()
	e := New(WithRand(zeroRand()), WithNow(clock.Now), WithTick(time.Hour))
	t.Cleanup(e.Close)

	require.NoError(t, e.StartDay())
	e.mu.Lock()
	stop := e.shiftStop
	e.mu.Unlock()

	clock.Advance(4 * time.Hour)
	assert.False(t, e.tickShift(stop))
	assert.Equal(t, (4 * time.Hour).Milliseconds(), e.Snapshot().TimeLeft)

	clock.Advance(5 * time.Hour)
	assert.True(t, e.tickShift(stop), "clock stops once the day settles")

	snap := e.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, 2, snap.Day)
	assert.Equal(t, qc.StartingMoney-qc.DailyCharges, snap.Money)
}

func TestShiftClock_StaleHandleIgnored(t *testing.T) {
	clock := newFakeClock()
	e := New(WithRand(zeroRand()), WithNow(clock.Now), WithTick(time.Hour))
	t.Cleanup(e.Close)

	require.NoError(t, e.StartDay())
	e.mu.Lock()
	stale := e.shiftStop
	e.mu.Unlock()

	_, err := e.EndDay()
	require.NoError(t, err)
	require.NoError(t, e.StartDay())

	// The old day's handle must not touch the new day's state.
	day := e.Snapshot().Day
	clock.Advance(10 * time.Hour)
	assert.True(t, e.tickShift(stale))
	assert.Equal(t, day, e.Snapshot().Day)
}

func TestShiftClock_RealTimerEndsDay(t *testing.T) {
	n := &recordingNotifier{}
	e := New(
		WithRand(zeroRand()),
		WithShiftDuration(40*time.Millisecond),
		WithTick(5*time.Millisecond),
		WithNotifier(n),
	)
	t.Cleanup(e.Close)

	require.NoError(t, e.StartDay())

	deadline := time.After(2 * time.Second)
	for e.Snapshot().Phase == PhaseRunning {
		select {
		case <-deadline:
			t.Fatal("shift clock never expired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	assert.Equal(t, 2, e.Snapshot().Day)
}

func TestGameOver_HistoryNewestFirstCappedAtTen(t *testing.T) {
	e := New(WithRand(zeroRand()), WithTick(time.Hour))

	for i := 0; i < 12; i++ {
		e.mu.Lock()
		e.money = float64(100 + i)
		e.gameOverLocked(false)
		e.mu.Unlock()
	}

	scores := e.Scores()
	require.Len(t, scores, 10)
	assert.Equal(t, 111.0, scores[0].FinalBalance, "newest first")
	assert.Equal(t, 102.0, scores[9].FinalBalance)
}

func TestReset_ClearsStateKeepsHistory(t *testing.T) {
	e := newRunningEngine(cleanProduct("product-0"))
	e.upgrades[qc.UpgradeSpeedDetection] = 2
	e.history = []qc.ScoreRecord{{Day: 5, Victory: true}}

	e.Reset()

	snap := e.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, 1, snap.Day)
	assert.Equal(t, qc.StartingMoney, snap.Money)
	assert.Zero(t, snap.Upgrades[qc.UpgradeSpeedDetection])
	assert.Empty(t, snap.Products)
	assert.Len(t, snap.History, 1, "score history survives reset")
}

func TestBuyUpgrade(t *testing.T) {
	e := New(WithRand(zeroRand()), WithTick(time.Hour))

	require.NoError(t, e.BuyUpgrade(qc.UpgradeSpeedDetection))
	assert.Equal(t, 1, e.UpgradeLevel(qc.UpgradeSpeedDetection))
	assert.Equal(t, qc.StartingMoney-150, e.Snapshot().Money)

	assert.ErrorIs(t, e.BuyUpgrade(qc.UpgradeKind("laser")), ErrUnknownUpgrade)

	e.mu.Lock()
	e.money = 10
	e.mu.Unlock()
	assert.ErrorIs(t, e.BuyUpgrade(qc.UpgradeCaliper), ErrInsufficientFunds)
	assert.Zero(t, e.UpgradeLevel(qc.UpgradeCaliper))

	e.mu.Lock()
	e.phase = PhaseGameOver
	e.money = 10000
	e.mu.Unlock()
	assert.ErrorIs(t, e.BuyUpgrade(qc.UpgradeCaliper), ErrGameOver)
}

func TestBuyUpgrade_AffectsNewProductsOnly(t *testing.T) {
	e := New(WithRand(zeroRand()), WithTick(time.Hour))
	t.Cleanup(e.Close)

	require.NoError(t, e.StartDay())
	before := e.Snapshot().Products[0].InspectionTime

	require.NoError(t, e.BuyUpgrade(qc.UpgradeSpeedDetection))
	assert.Equal(t, before, e.Snapshot().Products[0].InspectionTime,
		"stored times are not retroactively changed")

	_, err := e.EndDay()
	require.NoError(t, err)
	require.NoError(t, e.StartDay())

	after := e.Snapshot().Products[0].InspectionTime
	assert.Equal(t, before/2, after, "level 1 speedDetection halves new products' time")
}
