package indicator

import (
	"fmt"
	"math"

	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// TrendStrength scores how much of a band of SMAs trades below price.
// For periods start, start+step, ..., end the score is
// round(100·below/n) - round(100·notBelow/n), saturating in [-100, 100];
// an unresolved SMA counts as not-below. Direction is Long on the bar where
// the score freshly saturates at +100, Short when it sits at -100 and the
// bar's High is under the lowest SMA of the band.
type TrendStrength struct {
	start int
	end   int
	step  int
}

// NewTrendStrength creates a trend-strength runner.
func NewTrendStrength(start, end, step int) (*TrendStrength, error) {
	if start <= 0 || end < start || step <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"TrendStrength band must satisfy 0 < start <= end with positive step, got start=%d end=%d step=%d",
			start, end, step)
	}

	return &TrendStrength{start: start, end: end, step: step}, nil
}

// Name implements Runner.
func (t *TrendStrength) Name() string {
	return "TrendStrength"
}

// Key implements Runner.
func (t *TrendStrength) Key() Key {
	return NewKey(t.Name(), t.start, t.end, t.step)
}

// periods returns the SMA band, always including end.
func (t *TrendStrength) periods() []int {
	var ps []int
	for p := t.start; p < t.end; p += t.step {
		ps = append(ps, p)
	}

	return append(ps, t.end)
}

// Compute implements Runner.
func (t *TrendStrength) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	periods := t.periods()
	band := make([][]float64, len(periods))

	set := NewAttributeSet(t.Key(), symbol, series.Dates())

	for i, p := range periods {
		sma, err := NewSMA(p, types.FieldClose)
		if err != nil {
			return nil, err
		}

		smaSet, err := eng.Compute(sma, symbol, series)
		if err != nil {
			return nil, err
		}

		band[i] = smaSet.Column("SMA")
		if err := set.AddColumn(fmt.Sprintf("SMA%d", p), band[i]); err != nil {
			return nil, err
		}
	}

	n := float64(len(periods))
	strength := make([]float64, len(series))
	bandMin := undefinedSeries(len(series))

	for i, q := range series {
		below := 0.0
		min := math.Inf(1)
		anyDefined := false

		for _, sma := range band {
			if defined(sma[i]) {
				anyDefined = true

				if sma[i] < q.Close {
					below++
				}

				if sma[i] < min {
					min = sma[i]
				}
			}
		}

		strength[i] = math.Round(100*below/n) - math.Round(100*(n-below)/n)

		if anyDefined {
			bandMin[i] = min
		}
	}

	if err := set.AddColumn("TrendStrength", strength); err != nil {
		return nil, err
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i, q := range series {
		if i > 0 {
			long[i] = strength[i] >= 100 && strength[i-1] < 100
		}

		short[i] = strength[i] <= -100 && defined(bandMin[i]) && q.High < bandMin[i]
	}

	set.SetDirections(long, short)

	return set, nil
}
