// Package sizing decides how many shares an order acquires, applying a
// risk budget and board-lot rounding. Every method shares the same shape:
// a risk capital C and a per-share risk R derive raw shares floor(C/R),
// rounded down to the board lot for the price tier. Rounding never
// increases the share count beyond the unrounded floor.
package sizing

import (
	"math"
	"time"

	"github.com/pesotrader/pesotrader/internal/types"
)

// PositionSizer computes the share count for a candidate entry. A missing
// quote or an unresolved risk measure yields 0 shares, never an error; the
// caller simply drops the candidate.
type PositionSizer interface {
	// Name returns the sizing method identifier.
	Name() string
	// Shares returns the target share count, always >= 0.
	Shares(date time.Time, symbol string, account types.Account) (int64, error)
}

// lotShares applies the floor-then-round-down composition shared by every
// method.
func lotShares(capital, perShareRisk, price float64) int64 {
	if perShareRisk <= 0 || capital <= 0 {
		return 0
	}

	raw := int64(math.Floor(capital / perShareRisk))

	return RoundToBoardLot(raw, price)
}
