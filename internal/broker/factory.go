package broker

import "github.com/pesotrader/pesotrader/pkg/errors"

// AllBrokers lists the selectable cost models, for schema generation.
var AllBrokers = []any{
	"PSE",
	"ZeroFee",
}

// New builds a cost model by name, for config selection.
func New(name string) (CostModel, error) {
	switch name {
	case "PSE":
		return NewPSEBroker(), nil
	case "ZeroFee":
		return NewZeroFeeBroker(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownBroker, "unknown broker %q", name)
	}
}
