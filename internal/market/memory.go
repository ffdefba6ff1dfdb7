package market

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// MemoryQuoteStore is an in-memory QuoteStore backed by per-symbol
// series. It serves tests and small runs.
type MemoryQuoteStore struct {
	series  map[string]types.QuoteSeries
	symbols []string
}

// NewMemoryQuoteStore creates an empty in-memory quote store.
func NewMemoryQuoteStore() *MemoryQuoteStore {
	return &MemoryQuoteStore{
		series:  make(map[string]types.QuoteSeries),
		symbols: nil,
	}
}

// AddSeries registers a symbol's series. The series must be strictly
// time-sorted; an unsorted index is rejected as a data-integrity error.
func (m *MemoryQuoteStore) AddSeries(symbol string, series types.QuoteSeries) error {
	if err := series.Validate(); err != nil {
		return errors.Wrapf(errors.ErrCodeUnsortedQuoteIndex, err, "AddSeries: invalid series for %s", symbol)
	}

	if _, exists := m.series[symbol]; !exists {
		m.symbols = append(m.symbols, symbol)
		sort.Strings(m.symbols)
	}

	m.series[symbol] = series

	return nil
}

// Dates implements QuoteStore. The result is the sorted union of all
// symbols' date indices, bounded by start/end when given.
func (m *MemoryQuoteStore) Dates(start optional.Option[time.Time], end optional.Option[time.Time]) ([]time.Time, error) {
	seen := make(map[time.Time]struct{})

	var dates []time.Time

	for _, series := range m.series {
		for _, q := range series {
			if start.IsSome() && q.Time.Before(start.Unwrap()) {
				continue
			}

			if end.IsSome() && q.Time.After(end.Unwrap()) {
				continue
			}

			if _, ok := seen[q.Time]; !ok {
				seen[q.Time] = struct{}{}

				dates = append(dates, q.Time)
			}
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

// Symbols implements QuoteStore.
func (m *MemoryQuoteStore) Symbols(date optional.Option[time.Time]) ([]string, error) {
	if date.IsNone() {
		result := make([]string, len(m.symbols))
		copy(result, m.symbols)

		return result, nil
	}

	var active []string

	for _, symbol := range m.symbols {
		if m.series[symbol].IndexOf(date.Unwrap()) >= 0 {
			active = append(active, symbol)
		}
	}

	return active, nil
}

// Quotes implements QuoteStore.
func (m *MemoryQuoteStore) Quotes(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.QuoteSeries, error) {
	series, ok := m.series[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "Quotes: no data for symbol %s", symbol)
	}

	if start.IsNone() && end.IsNone() {
		return series, nil
	}

	var bounded types.QuoteSeries

	for _, q := range series {
		if start.IsSome() && q.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && q.Time.After(end.Unwrap()) {
			continue
		}

		bounded = append(bounded, q)
	}

	return bounded, nil
}

// ClosePrice implements QuoteStore.
func (m *MemoryQuoteStore) ClosePrice(date time.Time, symbol string) (optional.Option[float64], error) {
	series, ok := m.series[symbol]
	if !ok {
		return optional.None[float64](), nil
	}

	idx := series.IndexOf(date)
	if idx < 0 {
		return optional.None[float64](), nil
	}

	return optional.Some(series[idx].Close), nil
}
