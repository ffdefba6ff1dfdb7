package strategy

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
)

// StopPrice is a pure exit rule: it never enters on its own, but closes a
// position once the close retraces 20% of the range the trade has covered.
// The stop anchors on the entry close, the highest high and the lowest low
// since entry, and sits at max - 0.2*(max - min).
type StopPrice struct {
	store market.QuoteStore
}

// NewStopPrice creates the retracement exit strategy.
func NewStopPrice(store market.QuoteStore) *StopPrice {
	return &StopPrice{store: store}
}

// Name implements Strategy.
func (s *StopPrice) Name() string {
	return "StopPrice"
}

// IsLong implements Strategy. StopPrice never initiates a position.
func (s *StopPrice) IsLong(time.Time, string) (bool, error) {
	return false, nil
}

// IsShort implements Strategy.
func (s *StopPrice) IsShort(time.Time, string) (bool, error) {
	return false, nil
}

// IndicatorNames implements Strategy. There are no constituent indicators
// to tag entries with.
func (s *StopPrice) IndicatorNames(types.Direction, time.Time, string) ([]string, error) {
	return nil, nil
}

// ShouldExit implements Strategy.
func (s *StopPrice) ShouldExit(date time.Time, symbol string, entryDate time.Time, _ []string, _ types.Direction) (bool, error) {
	series, err := s.store.Quotes(symbol, optional.Some(entryDate), optional.Some(date))
	if err != nil {
		return false, err
	}

	// The stop needs at least one full bar beyond the entry to have a
	// range to retrace.
	if len(series) <= 2 {
		return false, nil
	}

	buyPrice := series[0].Close
	maxPrice := buyPrice
	minPrice := buyPrice

	for _, q := range series[1:] {
		if q.High > maxPrice {
			maxPrice = q.High
		}

		if q.Low < minPrice {
			minPrice = q.Low
		}
	}

	stop := maxPrice - 0.2*(maxPrice-minPrice)

	return series[len(series)-1].Close < stop, nil
}
