package indicator

import (
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
	"go.uber.org/zap"
)

// Engine computes runners over quote series with memoization. The cache
// outlives individual backtest runs, so repeated runs over an unchanged
// history reuse every computed series.
type Engine struct {
	cache  *Cache
	logger *logger.Logger
}

// NewEngine creates an engine with a fresh cache.
func NewEngine(l *logger.Logger) *Engine {
	return &Engine{
		cache:  NewCache(),
		logger: l,
	}
}

// Compute returns the runner's attribute set for the symbol and series,
// serving from cache when the cached date index matches the series exactly.
func (e *Engine) Compute(runner Runner, symbol string, series types.QuoteSeries) (*AttributeSet, error) {
	dates := series.Dates()

	if cached, ok := e.cache.Get(runner.Key(), symbol, dates); ok {
		return cached, nil
	}

	set, err := runner.Compute(e, symbol, series)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err,
			"failed to compute %s for %s", runner.Key(), symbol)
	}

	e.cache.Put(set)
	e.logger.Debug("Computed indicator",
		zap.String("key", runner.Key().String()),
		zap.String("symbol", symbol),
		zap.Int("bars", set.Len()))

	return set, nil
}

// Cache exposes the underlying cache, mainly for reuse across engines.
func (e *Engine) Cache() *Cache {
	return e.cache
}
