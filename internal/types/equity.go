package types

import "time"

// EquityPoint is one date's row of the equity curve.
type EquityPoint struct {
	Date   time.Time `yaml:"date" json:"date"`
	Equity float64   `yaml:"equity" json:"equity"`
	Cash   float64   `yaml:"cash" json:"cash"`
	// Drawdown is equity minus the running maximum of equity; always <= 0.
	Drawdown float64 `yaml:"drawdown" json:"drawdown"`
	// DrawdownPercent is 100 * Drawdown / running maximum.
	DrawdownPercent float64 `yaml:"drawdown_percent" json:"drawdown_percent"`
}
