package indicator

import (
	"math"

	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// ATR is the Wilder average true range. The true range at bar 0 is
// unresolved (no previous close); the first ATR lands at index `period`
// as the simple mean of the first `period` true ranges, and subsequent
// values follow the Wilder recursion (prev·(period-1) + TR) / period.
// ATR carries no directional signal.
type ATR struct {
	period int
}

// NewATR creates an ATR runner.
func NewATR(period int) (*ATR, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "ATR period must be positive, got %d", period)
	}

	return &ATR{period: period}, nil
}

// Name implements Runner.
func (a *ATR) Name() string {
	return "ATR"
}

// Key implements Runner.
func (a *ATR) Key() Key {
	return NewKey(a.Name(), a.period)
}

// trueRange computes TR[t] = max(|H-L|, |H-prevC|, |L-prevC|), unresolved
// at t = 0.
func trueRange(series types.QuoteSeries) []float64 {
	tr := undefinedSeries(len(series))

	for i := 1; i < len(series); i++ {
		hl := math.Abs(series[i].High - series[i].Low)
		hc := math.Abs(series[i].High - series[i-1].Close)
		lc := math.Abs(series[i].Low - series[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	return tr
}

// Compute implements Runner.
func (a *ATR) Compute(_ *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	tr := trueRange(series)
	atr := undefinedSeries(len(series))

	// Seed at index `period`: mean of TR[1..period].
	if len(series) > a.period {
		sum := 0.0
		for i := 1; i <= a.period; i++ {
			sum += tr[i]
		}

		atr[a.period] = sum / float64(a.period)

		for i := a.period + 1; i < len(series); i++ {
			atr[i] = (atr[i-1]*float64(a.period-1) + tr[i]) / float64(a.period)
		}
	}

	set := NewAttributeSet(a.Key(), symbol, series.Dates())
	if err := set.AddColumn("TR", tr); err != nil {
		return nil, err
	}

	if err := set.AddColumn("ATR", atr); err != nil {
		return nil, err
	}

	return set, nil
}
