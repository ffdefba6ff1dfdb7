package broker

import "github.com/shopspring/decimal"

// ZeroFeeBroker executes at raw notional with no fees, for frictionless
// simulations and tests.
type ZeroFeeBroker struct{}

// NewZeroFeeBroker creates the zero-fee cost model.
func NewZeroFeeBroker() *ZeroFeeBroker {
	return &ZeroFeeBroker{}
}

// Name implements CostModel.
func (b *ZeroFeeBroker) Name() string {
	return "ZeroFee"
}

// BuyCost implements CostModel.
func (b *ZeroFeeBroker) BuyCost(price float64, shares int64) float64 {
	if shares <= 0 {
		return 0
	}

	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(shares)).InexactFloat64()
}

// SellProceeds implements CostModel.
func (b *ZeroFeeBroker) SellProceeds(price float64, shares int64) float64 {
	if shares <= 0 {
		return 0
	}

	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(shares)).InexactFloat64()
}
