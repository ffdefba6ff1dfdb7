package strategy

import (
	"sync"

	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Constructor builds a strategy with its stock parameters over the given
// engine and store.
type Constructor func(engine *indicator.Engine, store market.QuoteStore) (Strategy, error)

// Registry maps strategy names to constructors, built at process start.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor under a strategy name.
func (r *Registry) Register(name string, c Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", name)
	}

	r.constructors[name] = c

	return nil
}

// Create builds a named strategy.
func (r *Registry) Create(name string, engine *indicator.Engine, store market.QuoteStore) (Strategy, error) {
	r.mu.RLock()
	c, ok := r.constructors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not registered", name)
	}

	return c(engine, store)
}

// Names returns the registered strategy names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}

	return names
}

// DefaultRegistry returns a registry with every built-in strategy under
// its stock parameters.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	register := func(name string, c Constructor) {
		if err := r.Register(name, c); err != nil {
			panic(err)
		}
	}

	register("DonchianChannel", func(engine *indicator.Engine, store market.QuoteStore) (Strategy, error) {
		return NewDonchianChannel(engine, store, DefaultDonchianChannelParams())
	})

	register("ATRChannelBreakout", func(engine *indicator.Engine, store market.QuoteStore) (Strategy, error) {
		return NewATRChannelBreakout(engine, store, DefaultATRChannelBreakoutParams())
	})

	register("TrendStrength", func(engine *indicator.Engine, store market.QuoteStore) (Strategy, error) {
		return NewTrendStrength(engine, store, DefaultTrendStrengthParams())
	})

	register("StopPrice", func(_ *indicator.Engine, store market.QuoteStore) (Strategy, error) {
		return NewStopPrice(store), nil
	})

	return r
}
