// Package strategy composes indicator signals into named entry/exit rules.
//
// A strategy is long (short) at a point iff every constituent indicator
// reports that direction there. Exit follows the tag-superset rule: a
// position leaves once each indicator that justified the entry has reported
// the opposite direction at some bar since the entry date.
package strategy

import (
	"time"

	"github.com/pesotrader/pesotrader/internal/types"
)

// Strategy evaluates directional membership at (date, symbol) and names
// the indicators that justified a signal, for audit tagging.
type Strategy interface {
	// Name returns the strategy's registry identifier.
	Name() string
	// IsLong reports whether every constituent indicator is long at the point.
	IsLong(date time.Time, symbol string) (bool, error)
	// IsShort reports whether every constituent indicator is short at the point.
	IsShort(date time.Time, symbol string) (bool, error)
	// IndicatorNames returns the cache keys of the indicators reporting the
	// given direction at the point.
	IndicatorNames(direction types.Direction, date time.Time, symbol string) ([]string, error)
	// ShouldExit reports whether a position entered at entryDate under the
	// given direction and entry tags should be closed at date.
	ShouldExit(date time.Time, symbol string, entryDate time.Time, entryTags []string, direction types.Direction) (bool, error)
}
