package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// EMA is a recursive exponential moving average seeded with the SMA at the
// first full window; positions before the seed stay unresolved. The SMA
// seed is requested through the engine so it is cached independently.
type EMA struct {
	period int
	field  types.QuoteField
}

// NewEMA creates an EMA runner.
func NewEMA(period int, field types.QuoteField) (*EMA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "EMA period must be positive, got %d", period)
	}

	return &EMA{period: period, field: field}, nil
}

// Name implements Runner.
func (e *EMA) Name() string {
	return "EMA"
}

// Key implements Runner.
func (e *EMA) Key() Key {
	return NewKey(e.Name(), e.period, string(e.field))
}

// Compute implements Runner.
func (e *EMA) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	sma, err := NewSMA(e.period, e.field)
	if err != nil {
		return nil, err
	}

	smaSet, err := eng.Compute(sma, symbol, series)
	if err != nil {
		return nil, err
	}

	values := fieldValues(series, e.field)
	smaCol := smaSet.Column("SMA")
	ema := undefinedSeries(len(values))
	alpha := 2.0 / (float64(e.period) + 1.0)
	seed := -1

	for i, v := range smaCol {
		if defined(v) {
			ema[i] = v
			seed = i

			break
		}
	}

	if seed >= 0 {
		for i := seed + 1; i < len(values); i++ {
			ema[i] = alpha*values[i] + (1.0-alpha)*ema[i-1]
		}
	}

	set := NewAttributeSet(e.Key(), symbol, series.Dates())
	if err := set.AddColumn("EMA", ema); err != nil {
		return nil, err
	}

	long := make([]bool, len(values))
	short := make([]bool, len(values))

	for i := range values {
		if defined(ema[i]) {
			long[i] = values[i] > ema[i]
			short[i] = values[i] < ema[i]
		}
	}

	set.SetDirections(long, short)

	return set, nil
}
