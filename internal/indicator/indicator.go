// Package indicator computes parameterized transforms over OHLCV series.
//
// Each Runner produces one or more named numeric columns plus a Direction
// column, indexed exactly like the input series. Values that cannot be
// resolved (warm-up prefix of a rolling window) are padded with NaN, never
// truncated, so the output index always equals the input index.
//
// Results are memoized by (cache key, symbol) in the Engine. Runners that
// depend on other runners (MACD on EMA, ATRChannel on ATR and SMA) request
// sub-results through the same Engine so those are cached too.
package indicator

import (
	"math"

	"github.com/pesotrader/pesotrader/internal/types"
)

// Runner computes one named, parameterized transform over a quote series.
// Two runners with identical name and parameters must produce an identical
// Key and identical output for the same input series.
type Runner interface {
	// Name returns the runner's registry identifier (e.g. "SMA").
	Name() string
	// Key returns the canonical cache key (name plus ordered parameters).
	Key() Key
	// Compute produces the full attribute set for the series. Sub-indicator
	// results must be requested through eng so they hit the shared cache.
	Compute(eng *Engine, symbol string, series types.QuoteSeries) (*AttributeSet, error)
}

// undefined is the padding value for unresolved series positions.
func undefined() float64 {
	return math.NaN()
}

// defined reports whether a series value is resolved.
func defined(v float64) bool {
	return !math.IsNaN(v)
}

// undefinedSeries returns a series of n unresolved values.
func undefinedSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = undefined()
	}

	return s
}

// fieldValues extracts one OHLCV column from the series.
func fieldValues(series types.QuoteSeries, field types.QuoteField) []float64 {
	values := make([]float64, len(series))
	for i, q := range series {
		values[i] = field.Value(q)
	}

	return values
}

// directions folds long/short condition vectors into a Direction column.
// Long wins when both fire on the same bar, matching the evaluation order
// of the signal rules.
func directions(long, short []bool) []types.Direction {
	out := make([]types.Direction, len(long))

	for i := range long {
		switch {
		case long[i]:
			out[i] = types.DirectionLong
		case short[i]:
			out[i] = types.DirectionShort
		default:
			out[i] = types.DirectionNone
		}
	}

	return out
}
