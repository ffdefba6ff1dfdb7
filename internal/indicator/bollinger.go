package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// BollingerBand wraps an SMA midline with bands k standard deviations
// away. Direction is Long when Close reaches the top band and Short when
// the bar's High stays under the bottom band.
type BollingerBand struct {
	period int
	stdev  int
}

// NewBollingerBand creates a Bollinger band runner.
func NewBollingerBand(period, stdev int) (*BollingerBand, error) {
	if period < 2 || stdev <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"BollingerBand requires period >= 2 and positive stdev, got period=%d stdev=%d", period, stdev)
	}

	return &BollingerBand{period: period, stdev: stdev}, nil
}

// Name implements Runner.
func (b *BollingerBand) Name() string {
	return "BollingerBand"
}

// Key implements Runner.
func (b *BollingerBand) Key() Key {
	return NewKey(b.Name(), b.period, b.stdev)
}

// Compute implements Runner.
func (b *BollingerBand) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	sma, err := NewSMA(b.period, types.FieldClose)
	if err != nil {
		return nil, err
	}

	stdev, err := NewSTDEV(b.period, types.FieldClose)
	if err != nil {
		return nil, err
	}

	smaSet, err := eng.Compute(sma, symbol, series)
	if err != nil {
		return nil, err
	}

	stdevSet, err := eng.Compute(stdev, symbol, series)
	if err != nil {
		return nil, err
	}

	mid := smaSet.Column("SMA")
	sd := stdevSet.Column("STDEV")
	top := undefinedSeries(len(series))
	bottom := undefinedSeries(len(series))

	for i := range series {
		if defined(mid[i]) && defined(sd[i]) {
			top[i] = mid[i] + sd[i]*float64(b.stdev)
			bottom[i] = mid[i] - sd[i]*float64(b.stdev)
		}
	}

	set := NewAttributeSet(b.Key(), symbol, series.Dates())

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
			long[i] = q.Close >= top[i]
		}

		if defined(bottom[i]) {
			short[i] = q.High < bottom[i]
		}
	}

	set.SetDirections(long, short)

	return set, nil
}
