package portfolio

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/types"
)

// EquityCurve is the ordered-by-date record of equity, cash, and drawdown
// statistics, one point per simulated date plus one synthetic seed point
// one day before the first real date.
type EquityCurve struct {
	points     []types.EquityPoint
	runningMax float64
}

// NewEquityCurve creates an empty curve.
func NewEquityCurve() *EquityCurve {
	return &EquityCurve{
		points:     nil,
		runningMax: 0,
	}
}

// Seed inserts the synthetic starting point one day before the first real
// date, carrying the starting balance with zero drawdown.
func (c *EquityCurve) Seed(firstDate time.Time, startingBalance float64) {
	c.points = append(c.points, types.EquityPoint{
		Date:            firstDate.AddDate(0, 0, -1),
		Equity:          startingBalance,
		Cash:            startingBalance,
		Drawdown:        0,
		DrawdownPercent: 0,
	})
	c.runningMax = startingBalance
}

// Append adds one date's point, recomputing drawdown against the running
// maximum of equity: drawdown = equity - max(equity so far), always <= 0.
func (c *EquityCurve) Append(date time.Time, equity, cash float64) {
	if equity > c.runningMax {
		c.runningMax = equity
	}

	drawdown := equity - c.runningMax
	percent := 0.0

	if c.runningMax != 0 {
		percent = 100 * drawdown / c.runningMax
	}

	c.points = append(c.points, types.EquityPoint{
		Date:            date,
		Equity:          equity,
		Cash:            cash,
		Drawdown:        drawdown,
		DrawdownPercent: percent,
	})
}

// Points returns the full curve in date order.
func (c *EquityCurve) Points() []types.EquityPoint {
	return c.points
}

// Len returns the number of points, including the synthetic seed.
func (c *EquityCurve) Len() int {
	return len(c.points)
}

// At returns the point for an exact date.
func (c *EquityCurve) At(date time.Time) optional.Option[types.EquityPoint] {
	for i := len(c.points) - 1; i >= 0; i-- {
		if c.points[i].Date.Equal(date) {
			return optional.Some(c.points[i])
		}
	}

	return optional.None[types.EquityPoint]()
}

// Last returns the most recent point.
func (c *EquityCurve) Last() optional.Option[types.EquityPoint] {
	if len(c.points) == 0 {
		return optional.None[types.EquityPoint]()
	}

	return optional.Some(c.points[len(c.points)-1])
}
