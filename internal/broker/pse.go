package broker

import (
	"github.com/shopspring/decimal"
)

// PSE fee stack, both sides unless noted.
var (
	pseCommissionRate = decimal.NewFromFloat(0.0025)
	pseMinCommission  = decimal.NewFromInt(20)
	pseVATRate        = decimal.NewFromFloat(0.12)  // on commission
	pseTransLevyRate  = decimal.NewFromFloat(0.00005)
	pseClearingRate   = decimal.NewFromFloat(0.0001) // SCCP
	pseSalesTaxRate   = decimal.NewFromFloat(0.006)  // sell side only, on notional
)

// PSEBroker models the standard Philippine Stock Exchange fee stack:
// commission of 0.25% of notional with a 20.00 minimum, 12% VAT on the
// commission, a 0.005% transaction levy, a 0.01% clearing fee, and a
// 0.6% sales tax on sells.
type PSEBroker struct{}

// NewPSEBroker creates the PSE cost model.
func NewPSEBroker() *PSEBroker {
	return &PSEBroker{}
}

// Name implements CostModel.
func (b *PSEBroker) Name() string {
	return "PSE"
}

func (b *PSEBroker) commission(notional decimal.Decimal) decimal.Decimal {
	com := notional.Mul(pseCommissionRate)
	if com.LessThanOrEqual(pseMinCommission) {
		return pseMinCommission
	}

	return com
}

func (b *PSEBroker) buyFees(notional decimal.Decimal) decimal.Decimal {
	com := b.commission(notional)
	vat := com.Mul(pseVATRate)
	levy := notional.Mul(pseTransLevyRate)
	clearing := notional.Mul(pseClearingRate)

	return com.Add(vat).Add(levy).Add(clearing)
}

// BuyCost implements CostModel.
func (b *PSEBroker) BuyCost(price float64, shares int64) float64 {
	if shares <= 0 {
		return 0
	}

	notional := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(shares))

	return notional.Add(b.buyFees(notional)).InexactFloat64()
}

// SellProceeds implements CostModel.
func (b *PSEBroker) SellProceeds(price float64, shares int64) float64 {
	if shares <= 0 {
		return 0
	}

	notional := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(shares))
	fees := b.buyFees(notional).Add(notional.Mul(pseSalesTaxRate))

	return notional.Sub(fees).InexactFloat64()
}
