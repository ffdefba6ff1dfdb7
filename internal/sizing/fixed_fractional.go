package sizing

import (
	"time"

	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// FixedFractional targets a fixed fraction of equity as position notional:
// C = equity * fraction, R = price.
type FixedFractional struct {
	store    market.QuoteStore
	fraction float64
}

// NewFixedFractional creates the fixed-fractional sizer.
func NewFixedFractional(store market.QuoteStore, fraction float64) (*FixedFractional, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"FixedFractional requires fraction in (0, 1], got %v", fraction)
	}

	return &FixedFractional{store: store, fraction: fraction}, nil
}

// Name implements PositionSizer.
func (f *FixedFractional) Name() string {
	return "FixedFractional"
}

// Shares implements PositionSizer.
func (f *FixedFractional) Shares(date time.Time, symbol string, account types.Account) (int64, error) {
	price, err := f.store.ClosePrice(date, symbol)
	if err != nil {
		return 0, err
	}

	if price.IsNone() || price.Unwrap() <= 0 {
		return 0, nil
	}

	p := price.Unwrap()

	return lotShares(account.Equity*f.fraction, p, p), nil
}
