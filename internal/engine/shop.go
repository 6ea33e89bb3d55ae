package engine

import "github.com/qualifab/qcontrol/internal/qc"

// BuyUpgrade debits the upgrade's cost and raises its level by one. Levels
// have no cap and persist across days; they are cleared only by Reset. The
// new level feeds all subsequent inspection-time calculations; products
// already generated keep their stored times.
func (e *Engine) BuyUpgrade(kind qc.UpgradeKind) error {
	e.mu.Lock()
	cost, ok := qc.UpgradeCosts[kind]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownUpgrade
	}
	if e.phase == PhaseGameOver {
		e.mu.Unlock()
		return ErrGameOver
	}
	if e.money < cost {
		e.mu.Unlock()
		return ErrInsufficientFunds
	}
	e.money -= cost
	e.upgrades[kind]++
	e.mu.Unlock()

	e.notifier.StateChanged()
	return nil
}

// UpgradeLevel reports the current level of an upgrade kind.
func (e *Engine) UpgradeLevel(kind qc.UpgradeKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades[kind]
}
