package sizing

import (
	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Method names a sizing implementation for config selection.
type Method string

const (
	MethodEquityPercentage Method = "EquityPercentage"
	MethodFixedFractional  Method = "FixedFractional"
	MethodATRNormalized    Method = "ATRNormalized"
	MethodFlatRisk         Method = "FlatRisk"
)

// AllMethods lists the selectable sizing methods, for schema generation.
var AllMethods = []any{
	string(MethodEquityPercentage),
	string(MethodFixedFractional),
	string(MethodATRNormalized),
	string(MethodFlatRisk),
}

// Options carries the union of sizing parameters; each method reads only
// the fields it needs.
type Options struct {
	RiskPct     float64 `yaml:"risk_pct" json:"risk_pct"`
	UnitRisk    float64 `yaml:"unit_risk" json:"unit_risk"`
	Fraction    float64 `yaml:"fraction" json:"fraction"`
	Amount      float64 `yaml:"amount" json:"amount"`
	ATRPeriod   int     `yaml:"atr_period" json:"atr_period"`
	ATRMultiple float64 `yaml:"atr_multiple" json:"atr_multiple"`
}

// DefaultOptions returns the stock parameter set.
func DefaultOptions() Options {
	return Options{
		RiskPct:     0.01,
		UnitRisk:    0.2,
		Fraction:    0.2,
		Amount:      1_000,
		ATRPeriod:   14,
		ATRMultiple: 2,
	}
}

// New builds a sizer by method name.
func New(method Method, store market.QuoteStore, engine *indicator.Engine, opts Options) (PositionSizer, error) {
	switch method {
	case MethodEquityPercentage:
		return NewEquityPercentage(store, opts.RiskPct, opts.UnitRisk)
	case MethodFixedFractional:
		return NewFixedFractional(store, opts.Fraction)
	case MethodATRNormalized:
		return NewATRNormalized(store, engine, opts.RiskPct, opts.ATRPeriod, opts.ATRMultiple)
	case MethodFlatRisk:
		return NewFlatRisk(store, opts.Amount, opts.UnitRisk)
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownSizingMethod, "unknown sizing method %q", method)
	}
}
