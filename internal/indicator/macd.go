package indicator

import (
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// MACD is EMA(fast) - EMA(slow) with a signal line that is an EMA of the
// MACD series itself. Direction fires only on crossover bars, analogous
// to MACross. The fast and slow EMAs are requested through the engine;
// the signal line is a recursion over the derived MACD column.
type MACD struct {
	fast   int
	slow   int
	signal int
}

// NewMACD creates a MACD runner.
func NewMACD(fast, slow, signal int) (*MACD, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"MACD periods must be positive, got fast=%d slow=%d signal=%d", fast, slow, signal)
	}

	return &MACD{fast: fast, slow: slow, signal: signal}, nil
}

// Name implements Runner.
func (m *MACD) Name() string {
	return "MACD"
}

// Key implements Runner.
func (m *MACD) Key() Key {
	return NewKey(m.Name(), m.fast, m.slow, m.signal)
}

// Compute implements Runner.
func (m *MACD) Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	fastEMA, err := NewEMA(m.fast, types.FieldClose)
	if err != nil {
		return nil, err
	}

	slowEMA, err := NewEMA(m.slow, types.FieldClose)
	if err != nil {
		return nil, err
	}

	fastSet, err := eng.Compute(fastEMA, symbol, series)
	if err != nil {
		return nil, err
	}

	slowSet, err := eng.Compute(slowEMA, symbol, series)
	if err != nil {
		return nil, err
	}

	fast := fastSet.Column("EMA")
	slow := slowSet.Column("EMA")
	macd := undefinedSeries(len(series))

	for i := range series {
		if defined(fast[i]) && defined(slow[i]) {
			macd[i] = fast[i] - slow[i]
		}
	}

	signal := recursiveEMA(macd, m.signal)
	macdCrossover := make([]float64, len(series))
	signalCrossover := make([]float64, len(series))

	for i := 1; i < len(series); i++ {
		if !defined(macd[i]) || !defined(signal[i]) || !defined(macd[i-1]) || !defined(signal[i-1]) {
			continue
		}

		if macd[i] > signal[i] && macd[i-1] <= signal[i-1] {
			macdCrossover[i] = 1
		}

		if macd[i] < signal[i] && signal[i-1] <= macd[i-1] {
			signalCrossover[i] = 1
		}
	}

	set := NewAttributeSet(m.Key(), symbol, series.Dates())

	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"MACD", macd},
		{"Signal", signal},
		{"MACDCrossoverSignal", macdCrossover},
		{"SignalCrossoverMACD", signalCrossover},
	} {
		if err := set.AddColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	long := make([]bool, len(series))
	short := make([]bool, len(series))

	for i := range series {
		long[i] = macdCrossover[i] == 1
		short[i] = signalCrossover[i] == 1
	}

	set.SetDirections(long, short)

	return set, nil
}
