package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// TrailingStops maintains ATR-based chandelier stops, one side at a time.
// While tracking an uptrend the sell stop trails below the rolling close
// maximum and only ratchets up; once price closes through it the runner
// flips to a buy stop trailing above the rolling close minimum, which only
// ratchets down. Direction: Long when the close reaches the buy stop,
// Short when it falls to the sell stop.
type TrailingStops struct {
	multiplier int
	period     int
}

// NewTrailingStops creates a trailing-stops runner.
func NewTrailingStops(multiplier, period int) (*TrailingStops, error) {
	if multiplier <= 0 || period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"TrailingStops parameters must be positive, got multiplier=%d period=%d", multiplier, period)
	}

	return &TrailingStops{multiplier: multiplier, period: period}, nil
}

// Name implements Runner.
func (t *TrailingStops) Name() string {
	return "TrailingStops"
}

// Key implements Runner.
func (t *TrailingStops) Key() Key {
	return NewKey(t.Name(), t.multiplier, t.period)
}

// Compute implements Runner.
func (t *TrailingStops) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	atrRunner, err := NewATR(t.period)
	if err != nil {
		return nil, err
	}

	atrSet, err := eng.Compute(atrRunner, symbol, series)
	if err != nil {
		return nil, err
	}

	atr := atrSet.Column("ATR")
	closes := fieldValues(series, types.FieldClose)
	buyStops := undefinedSeries(len(series))
	sellStops := undefinedSeries(len(series))
	offset := float64(t.multiplier)

	// Start on the sell side: the first resolved ATR assumes an uptrend.
	trackingSell := true

	for i := 0; i < len(series)-1; i++ {
		if !defined(atr[i]) {
			continue
		}

		// ATR resolves at index >= period, so the close window never
		// reaches before the series start.
		window := closes[i-t.period+1 : i+1]

		if trackingSell {
			stop := windowMax(window) - offset*atr[i]
			if defined(sellStops[i]) && sellStops[i] > stop {
				stop = sellStops[i]
			}

			sellStops[i+1] = stop

			if closes[i+1] <= stop {
				trackingSell = false
			}
		} else {
			stop := windowMin(window) + offset*atr[i]
			if defined(buyStops[i]) && buyStops[i] < stop {
				stop = buyStops[i]
			}

			buyStops[i+1] = stop

			if closes[i+1] >= stop {
				trackingSell = true
			}
		}
	}

	set := NewAttributeSet(t.Key(), symbol, series.Dates())
	if err := set.AddColumn("BuyStops", buyStops); err != nil {
		return nil, err
	}

	if err := set.AddColumn("SellStops", sellStops); err != nil {
		return nil, err
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i := range series {
		long[i] = defined(buyStops[i]) && closes[i] >= buyStops[i]
		short[i] = defined(sellStops[i]) && closes[i] <= sellStops[i]
	}

	set.SetDirections(long, short)

	return set, nil
}

func windowMax(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	return max
}

func windowMin(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}

	return min
}
