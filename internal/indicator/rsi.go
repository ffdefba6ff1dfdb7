package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// RSI is the relative strength index over smoothed gains and losses
// (adjusted exponential weighting, α = 1/period). RS divides the smoothed
// gain by the smoothed loss, so a loss-free stretch saturates RSI at 100.
// RSI is an observational column only and never emits a direction.
type RSI struct {
	period int
	field  types.QuoteField
}

// NewRSI creates an RSI runner.
func NewRSI(period int, field types.QuoteField) (*RSI, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "RSI period must be positive, got %d", period)
	}

	return &RSI{period: period, field: field}, nil
}

// Name implements Runner.
func (r *RSI) Name() string {
	return "RSI"
}

// Key implements Runner.
func (r *RSI) Key() Key {
	return NewKey(r.Name(), r.period, string(r.field))
}

// Compute implements Runner.
func (r *RSI) Compute(_ *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	values := fieldValues(series, r.field)
	gains := undefinedSeries(len(values))
	losses := undefinedSeries(len(values))

	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]

		if d > 0 {
			gains[i], losses[i] = d, 0
		} else {
			gains[i], losses[i] = 0, -d
		}
	}

	alpha := 1.0 / float64(r.period)
	smoothedGain := adjustedEWM(gains, alpha)
	smoothedLoss := adjustedEWM(losses, alpha)

	rs := undefinedSeries(len(values))
	rsi := undefinedSeries(len(values))

	for i := range values {
		if !defined(smoothedGain[i]) || !defined(smoothedLoss[i]) {
			continue
		}

		// Division by a zero loss yields +Inf and RSI saturates at 100.
		rs[i] = smoothedGain[i] / smoothedLoss[i]
		rsi[i] = 100 - 100/(1.0+rs[i])
	}

	set := NewAttributeSet(r.Key(), symbol, series.Dates())
	if err := set.AddColumn("RS", rs); err != nil {
		return nil, err
	}

	if err := set.AddColumn("RSI", rsi); err != nil {
		return nil, err
	}

	return set, nil
}
