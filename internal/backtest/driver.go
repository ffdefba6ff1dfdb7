package backtest

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/portfolio"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Run walks the store's trading dates in order, bounded by the optional
// start and end times, and feeds each date's tradable symbols to the
// portfolio. Returns the accumulated equity curve.
func Run(store market.QuoteStore, p *portfolio.Portfolio, start, end optional.Option[time.Time], l *logger.Logger) (*portfolio.EquityCurve, error) {
	dates, err := store.Dates(start, end)
	if err != nil {
		return nil, err
	}

	bar := progressbar.Default(int64(len(dates)))
	bar.Describe("Backtesting")

	for _, date := range dates {
		symbols, err := store.Symbols(optional.Some(date))
		if err != nil {
			return nil, err
		}

		if err := p.Update(date, symbols); err != nil {
			l.Error("Backtest aborted",
				zap.Time("date", date),
				zap.Error(err))

			return nil, err
		}

		if err := bar.Add(1); err != nil {
			// Progress display only; never aborts the run.
			l.Debug("Failed to advance progress bar", zap.Error(err))
		}
	}

	account := p.Account()
	l.Info("Backtest complete",
		zap.Int("dates", len(dates)),
		zap.Float64("final_equity", account.Equity),
		zap.Int("open_positions", len(p.OpenPositions())),
		zap.Int("transactions", len(p.Transactions())))

	return p.EquityCurve(), nil
}
