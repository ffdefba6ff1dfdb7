package types

// Direction is the categorical signal attached to indicator output.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	// DirectionNone marks bars with no signal, including bars whose
	// underlying values are still undefined.
	DirectionNone Direction = ""
)

// Opposite returns the opposing direction, or DirectionNone for none.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLong:
		return DirectionShort
	case DirectionShort:
		return DirectionLong
	default:
		return DirectionNone
	}
}
