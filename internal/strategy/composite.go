package strategy

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
)

// Composite is the default strategy shape: a named AND-composition of
// indicator runners over one quote store. With zero runners every
// membership test reports false.
type Composite struct {
	name    string
	engine  *indicator.Engine
	store   market.QuoteStore
	runners []indicator.Runner
}

// NewComposite creates a composite strategy over the given runners.
func NewComposite(name string, engine *indicator.Engine, store market.QuoteStore, runners ...indicator.Runner) *Composite {
	return &Composite{
		name:    name,
		engine:  engine,
		store:   store,
		runners: runners,
	}
}

// Name implements Strategy.
func (c *Composite) Name() string {
	return c.name
}

// attributeSets computes every runner over the symbol's full history so
// repeated per-date queries hit the cache.
func (c *Composite) attributeSets(symbol string) ([]*indicator.AttributeSet, error) {
	series, err := c.store.Quotes(symbol, optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return nil, err
	}

	sets := make([]*indicator.AttributeSet, len(c.runners))

	for i, runner := range c.runners {
		set, err := c.engine.Compute(runner, symbol, series)
		if err != nil {
			return nil, err
		}

		sets[i] = set
	}

	return sets, nil
}

func (c *Composite) isDirection(direction types.Direction, date time.Time, symbol string) (bool, error) {
	if len(c.runners) == 0 {
		return false, nil
	}

	sets, err := c.attributeSets(symbol)
	if err != nil {
		return false, err
	}

	for _, set := range sets {
		if set.DirectionAt(date) != direction {
			return false, nil
		}
	}

	return true, nil
}

// IsLong implements Strategy.
func (c *Composite) IsLong(date time.Time, symbol string) (bool, error) {
	return c.isDirection(types.DirectionLong, date, symbol)
}

// IsShort implements Strategy.
func (c *Composite) IsShort(date time.Time, symbol string) (bool, error) {
	return c.isDirection(types.DirectionShort, date, symbol)
}

// IndicatorNames implements Strategy.
func (c *Composite) IndicatorNames(direction types.Direction, date time.Time, symbol string) ([]string, error) {
	sets, err := c.attributeSets(symbol)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, set := range sets {
		if set.DirectionAt(date) == direction {
			names = append(names, set.Key.String())
		}
	}

	return names, nil
}

// indicatorNamesInRange returns the cache keys of runners that reported
// the direction on any bar in [start, end].
func (c *Composite) indicatorNamesInRange(direction types.Direction, start, end time.Time, symbol string) ([]string, error) {
	sets, err := c.attributeSets(symbol)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, set := range sets {
		for i, d := range set.Dates {
			if d.Before(start) || d.After(end) {
				continue
			}

			if set.Direction[i] == direction {
				names = append(names, set.Key.String())

				break
			}
		}
	}

	return names, nil
}

// ShouldExit implements Strategy. The literal rule from the source system
// is preserved: exit once every entry tag appears in the set of indicators
// that reported the opposite direction at some bar since entry.
func (c *Composite) ShouldExit(date time.Time, symbol string, entryDate time.Time, entryTags []string, direction types.Direction) (bool, error) {
	exitTags, err := c.indicatorNamesInRange(direction.Opposite(), entryDate, date, symbol)
	if err != nil {
		return false, err
	}

	seen := make(map[string]struct{}, len(exitTags))
	for _, tag := range exitTags {
		seen[tag] = struct{}{}
	}

	for _, tag := range entryTags {
		if _, ok := seen[tag]; !ok {
			return false, nil
		}
	}

	return true, nil
}
