// Package broker models the cash cost of order execution: commission,
// taxes, and regulatory fees. All fee math runs on decimals to keep the
// fee stack exact; results convert to float64 at the boundary.
package broker

// CostModel computes total cash outflow for a buy and net cash inflow
// for a sell. A share count <= 0 yields 0 in both directions; that is a
// no-op safeguard, not an error.
type CostModel interface {
	// Name returns the broker identifier.
	Name() string
	// BuyCost returns notional plus the buy-side fee stack.
	BuyCost(price float64, shares int64) float64
	// SellProceeds returns notional minus the sell-side fee stack.
	SellProceeds(price float64, shares int64) float64
}
