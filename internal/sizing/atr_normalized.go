package sizing

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// ATRNormalized derives per-share risk from volatility instead of price:
// C = equity * riskPct, R = ATR(period) * multiple. The ATR is requested
// through the indicator engine so it shares the memoization cache. An
// unresolved ATR (warm-up prefix) yields 0 shares.
type ATRNormalized struct {
	store    market.QuoteStore
	engine   *indicator.Engine
	riskPct  float64
	period   int
	multiple float64
}

// NewATRNormalized creates the ATR-normalized sizer.
func NewATRNormalized(store market.QuoteStore, engine *indicator.Engine, riskPct float64, period int, multiple float64) (*ATRNormalized, error) {
	if riskPct <= 0 || multiple <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"ATRNormalized requires positive riskPct and multiple, got %v and %v", riskPct, multiple)
	}

	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "ATRNormalized period must be positive, got %d", period)
	}

	return &ATRNormalized{
		store:    store,
		engine:   engine,
		riskPct:  riskPct,
		period:   period,
		multiple: multiple,
	}, nil
}

// Name implements PositionSizer.
func (a *ATRNormalized) Name() string {
	return "ATRNormalized"
}

// Shares implements PositionSizer.
func (a *ATRNormalized) Shares(date time.Time, symbol string, account types.Account) (int64, error) {
	price, err := a.store.ClosePrice(date, symbol)
	if err != nil {
		return 0, err
	}

	if price.IsNone() || price.Unwrap() <= 0 {
		return 0, nil
	}

	series, err := a.store.Quotes(symbol, optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return 0, err
	}

	atr, err := indicator.NewATR(a.period)
	if err != nil {
		return 0, err
	}

	set, err := a.engine.Compute(atr, symbol, series)
	if err != nil {
		return 0, err
	}

	risk := set.ValueAt("ATR", date)
	if math.IsNaN(risk) || risk <= 0 {
		return 0, nil
	}

	return lotShares(account.Equity*a.riskPct, risk*a.multiple, price.Unwrap()), nil
}
