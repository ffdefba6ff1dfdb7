package indicator

import (
	"strconv"
	"sync"

	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Constructor builds a runner from the parameter strings of a cache key.
type Constructor func(params []string) (Runner, error)

// Registry maps runner names to constructors. It is built at process
// start and replaces runtime subclass discovery: a runner is findable
// only if it was registered.
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

// Register adds a constructor under a runner name.
func (r *Registry) Register(name string, c Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator %s already registered", name)
	}

	r.constructors[name] = c

	return nil
}

// Create builds a runner by name and parameter strings.
func (r *Registry) Create(name string, params ...string) (Runner, error) {
	r.mu.RLock()
	c, ok := r.constructors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not registered", name)
	}

	return c(params)
}

// CreateFromKey reconstructs a runner from its cache key
// (e.g. "DonchianChannel_50_50").
func (r *Registry) CreateFromKey(key Key) (Runner, error) {
	name, params, err := key.Parse()
	if err != nil {
		return nil, err
	}

	return r.Create(name, params...)
}

// Names returns the registered runner names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}

	return names
}

func intParam(name string, params []string, i int) (int, error) {
	if i >= len(params) {
		return 0, errors.Newf(errors.ErrCodeInvalidIndicatorKey,
			"%s requires at least %d parameters, got %d", name, i+1, len(params))
	}

	v, err := strconv.Atoi(params[i])
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidIndicatorKey, err,
			"%s parameter %d is not an integer: %q", name, i, params[i])
	}

	return v, nil
}

func fieldParam(params []string, i int) types.QuoteField {
	if i >= len(params) {
		return types.FieldClose
	}

	return types.QuoteField(params[i])
}

// DefaultRegistry returns a registry with every built-in runner.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	register := func(name string, c Constructor) {
		// Names are unique at build time; duplicate registration here is a
		// programming error.
		if err := r.Register(name, c); err != nil {
			panic(err)
		}
	}

	register("SMA", func(params []string) (Runner, error) {
		period, err := intParam("SMA", params, 0)
		if err != nil {
			return nil, err
		}

		return NewSMA(period, fieldParam(params, 1))
	})

	register("EMA", func(params []string) (Runner, error) {
		period, err := intParam("EMA", params, 0)
		if err != nil {
			return nil, err
		}

		return NewEMA(period, fieldParam(params, 1))
	})

	register("STDEV", func(params []string) (Runner, error) {
		period, err := intParam("STDEV", params, 0)
		if err != nil {
			return nil, err
		}

		return NewSTDEV(period, fieldParam(params, 1))
	})

	register("ATR", func(params []string) (Runner, error) {
		period, err := intParam("ATR", params, 0)
		if err != nil {
			return nil, err
		}

		return NewATR(period)
	})

	register("DonchianChannel", func(params []string) (Runner, error) {
		high, err := intParam("DonchianChannel", params, 0)
		if err != nil {
			return nil, err
		}

		low, err := intParam("DonchianChannel", params, 1)
		if err != nil {
			return nil, err
		}

		return NewDonchianChannel(high, low)
	})

	register("ATRChannel", func(params []string) (Runner, error) {
		top, err := intParam("ATRChannel", params, 0)
		if err != nil {
			return nil, err
		}

		bottom, err := intParam("ATRChannel", params, 1)
		if err != nil {
			return nil, err
		}

		sma, err := intParam("ATRChannel", params, 2)
		if err != nil {
			return nil, err
		}

		return NewATRChannel(top, bottom, sma)
	})

	register("MACross", func(params []string) (Runner, error) {
		fast, err := intParam("MACross", params, 0)
		if err != nil {
			return nil, err
		}

		slow, err := intParam("MACross", params, 1)
		if err != nil {
			return nil, err
		}

		return NewMACross(fast, slow)
	})

	register("MACD", func(params []string) (Runner, error) {
		fast, err := intParam("MACD", params, 0)
		if err != nil {
			return nil, err
		}

		slow, err := intParam("MACD", params, 1)
		if err != nil {
			return nil, err
		}

		signal, err := intParam("MACD", params, 2)
		if err != nil {
			return nil, err
		}

		return NewMACD(fast, slow, signal)
	})

	register("TrendStrength", func(params []string) (Runner, error) {
		start, err := intParam("TrendStrength", params, 0)
		if err != nil {
			return nil, err
		}

		end, err := intParam("TrendStrength", params, 1)
		if err != nil {
			return nil, err
		}

		step, err := intParam("TrendStrength", params, 2)
		if err != nil {
			return nil, err
		}

		return NewTrendStrength(start, end, step)
	})

	register("Volume", func(params []string) (Runner, error) {
		period, err := intParam("Volume", params, 0)
		if err != nil {
			return nil, err
		}

		return NewVolume(period)
	})

	register("RSI", func(params []string) (Runner, error) {
		period, err := intParam("RSI", params, 0)
		if err != nil {
			return nil, err
		}

		return NewRSI(period, fieldParam(params, 1))
	})

	register("TrailingStops", func(params []string) (Runner, error) {
		multiplier, err := intParam("TrailingStops", params, 0)
		if err != nil {
			return nil, err
		}

		period, err := intParam("TrailingStops", params, 1)
		if err != nil {
			return nil, err
		}

		return NewTrailingStops(multiplier, period)
	})

	register("BollingerBand", func(params []string) (Runner, error) {
		period, err := intParam("BollingerBand", params, 0)
		if err != nil {
			return nil, err
		}

		stdev, err := intParam("BollingerBand", params, 1)
		if err != nil {
			return nil, err
		}

		return NewBollingerBand(period, stdev)
	})

	return r
}
