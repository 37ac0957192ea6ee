package sim

import "github.com/yanun0323/logs"

// RiskMonitor enforces the daily loss ceiling. The runner invokes Check
// once per bar, before the strategy callback, so a breach liquidates on
// the same bar it is detected.
type RiskMonitor struct {
	MaxDailyLoss float64 // breach when total PnL <= -MaxDailyLoss; 0 disables
}

func NewRiskMonitor(maxDailyLoss float64) *RiskMonitor {
	return &RiskMonitor{MaxDailyLoss: maxDailyLoss}
}

// Check evaluates the ceiling against realized plus unrealized PnL. On a
// breach it halts the engine and forces liquidation. The check is
// idempotent once halted: repeated breaches never re-trigger.
func (r *RiskMonitor) Check(e *Engine) (halted bool, err error) {
	if e.Halted() {
		return true, nil
	}
	if r == nil || r.MaxDailyLoss <= 0 {
		return false, nil
	}

	total := e.TotalPnL()
	if total > -r.MaxDailyLoss {
		return false, nil
	}

	logs.Infof("daily loss ceiling breached: pnl %.2f <= -%.2f, squaring off all positions", total, r.MaxDailyLoss)
	e.halt()
	if err := e.SquareOffAll(); err != nil {
		return true, err
	}
	return true, nil
}
