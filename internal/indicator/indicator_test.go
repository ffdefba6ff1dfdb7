package indicator

import (
	"math"
	"time"

	"github.com/pesotrader/pesotrader/internal/types"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// closeSeries builds bars where Open/High/Low/Close all equal the price.
func closeSeries(closes ...float64) types.QuoteSeries {
	series := make(types.QuoteSeries, len(closes))
	for i, c := range closes {
		series[i] = types.Quote{
			Time:   day(i + 1),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return series
}

// barSeries builds bars from explicit (high, low, close) triples.
func barSeries(bars ...[3]float64) types.QuoteSeries {
	series := make(types.QuoteSeries, len(bars))
	for i, b := range bars {
		series[i] = types.Quote{
			Time:   day(i + 1),
			Open:   b[2],
			High:   b[0],
			Low:    b[1],
			Close:  b[2],
			Volume: 1000,
		}
	}

	return series
}

func isNaN(v float64) bool {
	return math.IsNaN(v)
}
