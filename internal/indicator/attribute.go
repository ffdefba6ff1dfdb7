package indicator

import (
	"time"

	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// AttributeSet is the output of one runner for one symbol: named numeric
// columns plus a Direction column, all indexed by the same date vector as
// the input series. Once published to the cache it must not be mutated.
type AttributeSet struct {
	Key       Key
	Symbol    string
	Dates     []time.Time
	Direction []types.Direction

	columns map[string][]float64
	order   []string
	index   map[time.Time]int
}

// NewAttributeSet creates an empty attribute set over the given date index.
// The Direction column starts as all-None.
func NewAttributeSet(key Key, symbol string, dates []time.Time) *AttributeSet {
	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	return &AttributeSet{
		Key:       key,
		Symbol:    symbol,
		Dates:     dates,
		Direction: make([]types.Direction, len(dates)),
		columns:   make(map[string][]float64),
		order:     nil,
		index:     index,
	}
}

// AddColumn attaches a named numeric column. The column length must equal
// the date index length (pad with NaN, never truncate).
func (a *AttributeSet) AddColumn(name string, values []float64) error {
	if len(values) != len(a.Dates) {
		return errors.Newf(errors.ErrCodeIndicatorCalculation,
			"column %s has %d values for %d dates", name, len(values), len(a.Dates))
	}

	if _, exists := a.columns[name]; !exists {
		a.order = append(a.order, name)
	}

	a.columns[name] = values

	return nil
}

// SetDirections fills the Direction column from long/short condition vectors.
func (a *AttributeSet) SetDirections(long, short []bool) {
	a.Direction = directions(long, short)
}

// Len returns the number of indexed dates.
func (a *AttributeSet) Len() int {
	return len(a.Dates)
}

// ColumnNames returns the column names in insertion order.
func (a *AttributeSet) ColumnNames() []string {
	names := make([]string, len(a.order))
	copy(names, a.order)

	return names
}

// Column returns a named column, or nil if absent.
func (a *AttributeSet) Column(name string) []float64 {
	return a.columns[name]
}

// IndexOf returns the position of date in the set, or -1 if absent.
func (a *AttributeSet) IndexOf(date time.Time) int {
	if i, ok := a.index[date]; ok {
		return i
	}

	return -1
}

// ValueAt returns the column value on the given date, or NaN when the date
// is absent or the value is unresolved.
func (a *AttributeSet) ValueAt(column string, date time.Time) float64 {
	values, ok := a.columns[column]
	if !ok {
		return undefined()
	}

	i := a.IndexOf(date)
	if i < 0 {
		return undefined()
	}

	return values[i]
}

// DirectionAt returns the Direction on the given date, or None when the
// date is absent.
func (a *AttributeSet) DirectionAt(date time.Time) types.Direction {
	i := a.IndexOf(date)
	if i < 0 {
		return types.DirectionNone
	}

	return a.Direction[i]
}

// sameIndex reports whether the set's date index equals the given one.
// This is the cache-hit test: index equality, not content hashing.
func (a *AttributeSet) sameIndex(dates []time.Time) bool {
	if len(a.Dates) != len(dates) {
		return false
	}

	for i := range dates {
		if !a.Dates[i].Equal(dates[i]) {
			return false
		}
	}

	return true
}
