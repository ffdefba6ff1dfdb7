package sizing

import (
	"time"

	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// EquityPercentage risks a fixed percentage of account equity per entry:
// C = equity * riskPct, R = price * unitRisk.
type EquityPercentage struct {
	store    market.QuoteStore
	riskPct  float64
	unitRisk float64
}

// NewEquityPercentage creates the equity-percentage sizer. The stock
// parameters are riskPct 0.01 and unitRisk 0.2.
func NewEquityPercentage(store market.QuoteStore, riskPct, unitRisk float64) (*EquityPercentage, error) {
	if riskPct <= 0 || unitRisk <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"EquityPercentage requires positive riskPct and unitRisk, got %v and %v", riskPct, unitRisk)
	}

	return &EquityPercentage{store: store, riskPct: riskPct, unitRisk: unitRisk}, nil
}

// Name implements PositionSizer.
func (e *EquityPercentage) Name() string {
	return "EquityPercentage"
}

// Shares implements PositionSizer.
func (e *EquityPercentage) Shares(date time.Time, symbol string, account types.Account) (int64, error) {
	price, err := e.store.ClosePrice(date, symbol)
	if err != nil {
		return 0, err
	}

	if price.IsNone() || price.Unwrap() <= 0 {
		return 0, nil
	}

	p := price.Unwrap()

	return lotShares(account.Equity*e.riskPct, p*e.unitRisk, p), nil
}
