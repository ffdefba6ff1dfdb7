package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// STDEV is the rolling sample standard deviation of one OHLCV field.
type STDEV struct {
	period int
	field  types.QuoteField
}

// NewSTDEV creates a STDEV runner.
func NewSTDEV(period int, field types.QuoteField) (*STDEV, error) {
	if period < 2 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "STDEV period must be at least 2, got %d", period)
	}

	return &STDEV{period: period, field: field}, nil
}

// Name implements Runner.
func (s *STDEV) Name() string {
	return "STDEV"
}

// Key implements Runner.
func (s *STDEV) Key() Key {
	return NewKey(s.Name(), s.period, string(s.field))
}

// Compute implements Runner.
func (s *STDEV) Compute(_ *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	values := fieldValues(series, s.field)
	stdev := rollingStd(values, s.period)

	set := NewAttributeSet(s.Key(), symbol, series.Dates())
	if err := set.AddColumn("STDEV", stdev); err != nil {
		return nil, err
	}

	long := make([]bool, len(values))
	short := make([]bool, len(values))

	for i := range values {
		if defined(stdev[i]) {
			long[i] = values[i] > stdev[i]
			short[i] = values[i] < stdev[i]
		}
	}

	set.SetDirections(long, short)

	return set, nil
}
