package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// DonchianChannel computes rolling max(High) and min(Low) bands with their
// midpoint. Direction is Long on a bar where the high band makes a fresh
// higher high while the low band holds or rises, Short on the symmetric
// opposite.
type DonchianChannel struct {
	high int
	low  int
}

// NewDonchianChannel creates a Donchian channel runner.
func NewDonchianChannel(high, low int) (*DonchianChannel, error) {
	if high <= 0 || low <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"DonchianChannel periods must be positive, got high=%d low=%d", high, low)
	}

	return &DonchianChannel{high: high, low: low}, nil
}

// Name implements Runner.
func (d *DonchianChannel) Name() string {
	return "DonchianChannel"
}

// Key implements Runner.
func (d *DonchianChannel) Key() Key {
	return NewKey(d.Name(), d.high, d.low)
}

// Compute implements Runner.
func (d *DonchianChannel) Compute(_ *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	highBand := rollingMax(fieldValues(series, types.FieldHigh), d.high)
	lowBand := rollingMin(fieldValues(series, types.FieldLow), d.low)
	mid := undefinedSeries(len(series))

	for i := range mid {
		if defined(highBand[i]) && defined(lowBand[i]) {
			mid[i] = (highBand[i] + lowBand[i]) / 2
		}
	}

	set := NewAttributeSet(d.Key(), symbol, series.Dates())

	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"High", highBand},
		{"Mid", mid},
		{"Low", lowBand},
	} {
		if err := set.AddColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i := 1; i < len(series); i++ {
		if !defined(highBand[i]) || !defined(lowBand[i]) || !defined(highBand[i-1]) || !defined(lowBand[i-1]) {
			continue
		}

		long[i] = highBand[i-1] < highBand[i] && lowBand[i-1] <= lowBand[i]
		short[i] = lowBand[i-1] > lowBand[i] && highBand[i-1] >= highBand[i]
	}

	set.SetDirections(long, short)

	return set, nil
}
