package types

import (
	"time"

	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Quote is a single OHLCV bar for one symbol on one date.
// Quotes are immutable once ingested; they are owned by the quote store.
type Quote struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// QuoteSeries is a time-sorted slice of quotes for a single symbol.
type QuoteSeries []Quote

// Dates returns the date index of the series.
func (s QuoteSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, q := range s {
		dates[i] = q.Time
	}

	return dates
}

// Validate checks that the series is strictly sorted by time.
// An unsorted index is a data-integrity error and must abort the run.
func (s QuoteSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i-1].Time.Before(s[i].Time) {
			return errors.Newf(errors.ErrCodeUnsortedQuoteIndex,
				"quote series is not strictly sorted at index %d (%s >= %s)",
				i, s[i-1].Time.Format(time.RFC3339), s[i].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// IndexOf returns the position of date in the series, or -1 if absent.
func (s QuoteSeries) IndexOf(date time.Time) int {
	lo, hi := 0, len(s)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case s[mid].Time.Equal(date):
			return mid
		case s[mid].Time.Before(date):
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}

	return -1
}

// QuoteField selects which OHLCV column an indicator reads.
type QuoteField string

const (
	FieldOpen   QuoteField = "Open"
	FieldHigh   QuoteField = "High"
	FieldLow    QuoteField = "Low"
	FieldClose  QuoteField = "Close"
	FieldVolume QuoteField = "Volume"
)

// Value returns the selected field of the quote.
func (f QuoteField) Value(q Quote) float64 {
	switch f {
	case FieldOpen:
		return q.Open
	case FieldHigh:
		return q.High
	case FieldLow:
		return q.Low
	case FieldVolume:
		return q.Volume
	default:
		return q.Close
	}
}
