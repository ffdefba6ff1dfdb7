package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Volume compares traded volume against its own EMA and splits it into
// up-bar and down-bar components. Direction fires on the crossing bars
// only: Long when volume crosses above its EMA, Short when it crosses
// below.
type Volume struct {
	period int
}

// NewVolume creates a volume runner.
func NewVolume(period int) (*Volume, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "Volume period must be positive, got %d", period)
	}

	return &Volume{period: period}, nil
}

// Name implements Runner.
func (v *Volume) Name() string {
	return "Volume"
}

// Key implements Runner.
func (v *Volume) Key() Key {
	return NewKey(v.Name(), v.period)
}

// Compute implements Runner.
func (v *Volume) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	emaRunner, err := NewEMA(v.period, types.FieldVolume)
	if err != nil {
		return nil, err
	}

	emaSet, err := eng.Compute(emaRunner, symbol, series)
	if err != nil {
		return nil, err
	}

	ema := emaSet.Column("EMA")
	volume := fieldValues(series, types.FieldVolume)
	up := make([]float64, len(series))
	down := make([]float64, len(series))

	for i, q := range series {
		if q.Open < q.Close {
			up[i] = q.Volume
		} else {
			down[i] = q.Volume
		}
	}

	set := NewAttributeSet(v.Key(), symbol, series.Dates())

	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"Volume", volume},
		{"EMA", ema},
		{"Up", up},
		{"Down", down},
	} {
		if err := set.AddColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i := 1; i < len(series); i++ {
		if !defined(ema[i]) || !defined(ema[i-1]) {
			continue
		}

		long[i] = volume[i] > ema[i] && volume[i-1] < ema[i-1]
		short[i] = volume[i] < ema[i] && volume[i-1] > ema[i-1]
	}

	set.SetDirections(long, short)

	return set, nil
}
