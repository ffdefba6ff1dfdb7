package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// MACross tracks a fast and a slow SMA and flags the bars where their
// ordering flips. FastCrossoverSlow is 1 on the bar where the fast average
// first reaches or exceeds the slow one after being below, SlowCrossoverFast
// on the opposite flip. Direction fires only on those flip bars, never
// while the ordering merely persists.
type MACross struct {
	fast int
	slow int
}

// NewMACross creates a moving-average cross runner.
func NewMACross(fast, slow int) (*MACross, error) {
	if fast <= 0 || slow <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"MACross periods must be positive, got fast=%d slow=%d", fast, slow)
	}

	return &MACross{fast: fast, slow: slow}, nil
}

// Name implements Runner.
func (m *MACross) Name() string {
	return "MACross"
}

// Key implements Runner.
func (m *MACross) Key() Key {
	return NewKey(m.Name(), m.fast, m.slow)
}

// Compute implements Runner.
func (m *MACross) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	fastSMA, err := NewSMA(m.fast, types.FieldClose)
	if err != nil {
		return nil, err
	}

	slowSMA, err := NewSMA(m.slow, types.FieldClose)
	if err != nil {
		return nil, err
	}

	fastSet, err := eng.Compute(fastSMA, symbol, series)
	if err != nil {
		return nil, err
	}

	slowSet, err := eng.Compute(slowSMA, symbol, series)
	if err != nil {
		return nil, err
	}

	fast := fastSet.Column("SMA")
	slow := slowSet.Column("SMA")
	fastOnTop := make([]float64, len(series))
	slowOnTop := make([]float64, len(series))

	for i := 1; i < len(series); i++ {
		if !defined(fast[i]) || !defined(slow[i]) {
			continue
		}

		// An unresolved previous bar counts as a flip: the first bar where
		// both averages resolve fires the signal for whichever is on top.
		prevUnknown := !defined(fast[i-1]) || !defined(slow[i-1])

		if fast[i] >= slow[i] && (prevUnknown || slow[i-1] > fast[i-1]) {
			fastOnTop[i] = 1
		}

		// Strict on the slow side so an exact tie resolves to the fast
		// average and the two flags never fire on the same bar.
		if slow[i] > fast[i] && (prevUnknown || fast[i-1] > slow[i-1]) {
			slowOnTop[i] = 1
		}
	}

	set := NewAttributeSet(m.Key(), symbol, series.Dates())

	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"FastSMA", fast},
		{"SlowSMA", slow},
		{"FastCrossoverSlow", fastOnTop},
		{"SlowCrossoverFast", slowOnTop},
	} {
		if err := set.AddColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i := range series {
		long[i] = fastOnTop[i] == 1
		short[i] = slowOnTop[i] == 1
	}

	set.SetDirections(long, short)

	return set, nil
}
