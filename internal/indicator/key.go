package indicator

import (
	"fmt"
	"strings"

	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Key is the canonical identity of a runner instance: the runner name
// followed by its full ordered parameter list, joined by underscores
// (e.g. "DonchianChannel_50_50", "SMA_10_Close"). Identical runner name
// and parameters always yield an identical Key; the Key doubles as the
// memoization key and as a parseable constructor spec for the registry.
type Key string

// NewKey builds a Key from a runner name and its ordered parameters.
func NewKey(name string, params ...any) Key {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, name)

	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}

	return Key(strings.Join(parts, "_"))
}

// Parse splits the key into runner name and parameter strings.
func (k Key) Parse() (string, []string, error) {
	parts := strings.Split(string(k), "_")
	if len(parts) == 0 || parts[0] == "" {
		return "", nil, errors.Newf(errors.ErrCodeInvalidIndicatorKey, "empty indicator key %q", k)
	}

	return parts[0], parts[1:], nil
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}
