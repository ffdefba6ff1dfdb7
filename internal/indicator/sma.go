package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// SMA is a rolling-window mean of one OHLCV field. Direction is Long while
// the field trades above the average and Short while below.
type SMA struct {
	period int
	field  types.QuoteField
}

// NewSMA creates an SMA runner.
func NewSMA(period int, field types.QuoteField) (*SMA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "SMA period must be positive, got %d", period)
	}

	return &SMA{period: period, field: field}, nil
}

// Name implements Runner.
func (s *SMA) Name() string {
	return "SMA"
}

// Key implements Runner.
func (s *SMA) Key() Key {
	return NewKey(s.Name(), s.period, string(s.field))
}

// Compute implements Runner.
func (s *SMA) Compute(_ *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	values := fieldValues(series, s.field)
	sma := rollingMean(values, s.period)

	set := NewAttributeSet(s.Key(), symbol, series.Dates())
	if err := set.AddColumn("SMA", sma); err != nil {
		return nil, err
	}

	long := make([]bool, len(values))
	short := make([]bool, len(values))

	for i := range values {
		if defined(sma[i]) {
			long[i] = values[i] > sma[i]
			short[i] = values[i] < sma[i]
		}
	}

	set.SetDirections(long, short)

	return set, nil
}
