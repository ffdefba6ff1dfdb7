package market

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/types"
)

// QuoteStore is the read-only market data contract consumed by the
// backtesting engine. Implementations must return deterministic,
// repeatable results for identical arguments within one process lifetime.
type QuoteStore interface {
	// Dates returns the ordered list of trading dates, optionally bounded.
	Dates(start optional.Option[time.Time], end optional.Option[time.Time]) ([]time.Time, error)
	// Symbols returns the symbols active on the given date, or all known
	// symbols when no date is passed.
	Symbols(date optional.Option[time.Time]) ([]string, error)
	// Quotes returns the time-sorted OHLCV series for one symbol,
	// optionally bounded by start/end.
	Quotes(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.QuoteSeries, error)
	// ClosePrice returns the closing price for (date, symbol), or None
	// when the symbol has no quote on that date.
	ClosePrice(date time.Time, symbol string) (optional.Option[float64], error)
}
