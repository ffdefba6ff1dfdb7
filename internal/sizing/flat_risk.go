package sizing

import (
	"time"

	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// FlatRisk risks a fixed peso amount per entry regardless of equity:
// C = amount, R = price * unitRisk.
type FlatRisk struct {
	store    market.QuoteStore
	amount   float64
	unitRisk float64
}

// NewFlatRisk creates the flat-risk sizer.
func NewFlatRisk(store market.QuoteStore, amount, unitRisk float64) (*FlatRisk, error) {
	if amount <= 0 || unitRisk <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"FlatRisk requires positive amount and unitRisk, got %v and %v", amount, unitRisk)
	}

	return &FlatRisk{store: store, amount: amount, unitRisk: unitRisk}, nil
}

// Name implements PositionSizer.
func (f *FlatRisk) Name() string {
	return "FlatRisk"
}

// Shares implements PositionSizer.
func (f *FlatRisk) Shares(date time.Time, symbol string, account types.Account) (int64, error) {
	price, err := f.store.ClosePrice(date, symbol)
	if err != nil {
		return 0, err
	}

	if price.IsNone() || price.Unwrap() <= 0 {
		return 0, nil
	}

	p := price.Unwrap()

	return lotShares(f.amount, p*f.unitRisk, p), nil
}
