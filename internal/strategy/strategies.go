package strategy

import (
	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/market"
)

// DonchianChannelParams configures the Donchian breakout strategy.
type DonchianChannelParams struct {
	High int
	Low  int
	Fast int
	Slow int
}

// DefaultDonchianChannelParams returns the stock parameter set.
func DefaultDonchianChannelParams() DonchianChannelParams {
	return DonchianChannelParams{High: 50, Low: 50, Fast: 100, Slow: 120}
}

// NewDonchianChannel builds the Donchian breakout strategy: a Donchian
// channel confirmed by a moving-average cross.
func NewDonchianChannel(engine *indicator.Engine, store market.QuoteStore, params DonchianChannelParams) (Strategy, error) {
	donchian, err := indicator.NewDonchianChannel(params.High, params.Low)
	if err != nil {
		return nil, err
	}

	cross, err := indicator.NewMACross(params.Fast, params.Slow)
	if err != nil {
		return nil, err
	}

	return NewComposite("DonchianChannel", engine, store, donchian, cross), nil
}

// ATRChannelBreakoutParams configures the ATR channel breakout strategy.
type ATRChannelBreakoutParams struct {
	Top    int
	Bottom int
	SMA    int
	Fast   int
	Slow   int
}

// DefaultATRChannelBreakoutParams returns the stock parameter set.
func DefaultATRChannelBreakoutParams() ATRChannelBreakoutParams {
	return ATRChannelBreakoutParams{Top: 7, Bottom: 3, SMA: 150, Fast: 100, Slow: 120}
}

// NewATRChannelBreakout builds the ATR channel breakout strategy.
func NewATRChannelBreakout(engine *indicator.Engine, store market.QuoteStore, params ATRChannelBreakoutParams) (Strategy, error) {
	channel, err := indicator.NewATRChannel(params.Top, params.Bottom, params.SMA)
	if err != nil {
		return nil, err
	}

	cross, err := indicator.NewMACross(params.Fast, params.Slow)
	if err != nil {
		return nil, err
	}

	return NewComposite("ATRChannelBreakout", engine, store, channel, cross), nil
}

// TrendStrengthParams configures the trend-strength strategy.
type TrendStrengthParams struct {
	Start int
	End   int
	Step  int
	Fast  int
	Slow  int
}

// DefaultTrendStrengthParams returns the stock parameter set.
func DefaultTrendStrengthParams() TrendStrengthParams {
	return TrendStrengthParams{Start: 40, End: 150, Step: 5, Fast: 100, Slow: 150}
}

// NewTrendStrength builds the trend-strength strategy.
func NewTrendStrength(engine *indicator.Engine, store market.QuoteStore, params TrendStrengthParams) (Strategy, error) {
	trend, err := indicator.NewTrendStrength(params.Start, params.End, params.Step)
	if err != nil {
		return nil, err
	}

	cross, err := indicator.NewMACross(params.Fast, params.Slow)
	if err != nil {
		return nil, err
	}

	return NewComposite("TrendStrength", engine, store, trend, cross), nil
}
