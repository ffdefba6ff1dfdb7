package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// ATRChannel wraps an SMA midline with ATR bands computed from separate
// top and bottom periods. Direction is Long when Close breaks above the
// top band and Short when Close falls below the bottom band. ATR and SMA
// sub-results are requested through the engine.
type ATRChannel struct {
	top    int
	bottom int
	sma    int
}

// NewATRChannel creates an ATR channel runner.
func NewATRChannel(top, bottom, sma int) (*ATRChannel, error) {
	if top <= 0 || bottom <= 0 || sma <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"ATRChannel periods must be positive, got top=%d bottom=%d sma=%d", top, bottom, sma)
	}

	return &ATRChannel{top: top, bottom: bottom, sma: sma}, nil
}

// Name implements Runner.
func (a *ATRChannel) Name() string {
	return "ATRChannel"
}

// Key implements Runner.
func (a *ATRChannel) Key() Key {
	return NewKey(a.Name(), a.top, a.bottom, a.sma)
}

// Compute implements Runner.
func (a *ATRChannel) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	topATR, err := NewATR(a.top)
	if err != nil {
		return nil, err
	}

	bottomATR, err := NewATR(a.bottom)
	if err != nil {
		return nil, err
	}

	midSMA, err := NewSMA(a.sma, types.FieldClose)
	if err != nil {
		return nil, err
	}

	topSet, err := eng.Compute(topATR, symbol, series)
	if err != nil {
		return nil, err
	}

	bottomSet, err := eng.Compute(bottomATR, symbol, series)
	if err != nil {
		return nil, err
	}

	smaSet, err := eng.Compute(midSMA, symbol, series)
	if err != nil {
		return nil, err
	}

	mid := smaSet.Column("SMA")
	topCol := topSet.Column("ATR")
	bottomCol := bottomSet.Column("ATR")
	top := undefinedSeries(len(series))
	bottom := undefinedSeries(len(series))

	for i := range series {
		if defined(mid[i]) && defined(topCol[i]) {
			top[i] = mid[i] + topCol[i]
		}

		if defined(mid[i]) && defined(bottomCol[i]) {
			bottom[i] = mid[i] - bottomCol[i]
		}
	}

	set := NewAttributeSet(a.Key(), symbol, series.Dates())

	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"Top", top},
		{"Mid", mid},
		{"Bottom", bottom},
	} {
		if err := set.AddColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i, q := range series {
		if defined(top[i]) {
			long[i] = q.Close > top[i]
		}

		if defined(bottom[i]) {
			short[i] = q.Close < bottom[i]
		}
	}

	set.SetDirections(long, short)

	return set, nil
}
