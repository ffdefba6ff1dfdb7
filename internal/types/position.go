package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/pkg/errors"
)

// Position is one open or closed holding. Created when an open order
// fills, revalued every date while open, terminal once ExitDate is set.
type Position struct {
	ID        string                     `yaml:"id" json:"id"`
	Symbol    string                     `yaml:"symbol" json:"symbol"`
	Direction Direction                  `yaml:"direction" json:"direction"`
	Shares    int64                      `yaml:"shares" json:"shares"`
	EntryDate time.Time                  `yaml:"entry_date" json:"entry_date"`
	ExitDate  optional.Option[time.Time] `yaml:"exit_date" json:"exit_date"`
	// EntryPrice is the fill price at open.
	EntryPrice float64 `yaml:"entry_price" json:"entry_price"`
	// Price is the last revaluation price.
	Price float64 `yaml:"price" json:"price"`
	// Value is the current market value, marked at sell-side valuation.
	Value float64 `yaml:"value" json:"value"`
	// Tags are the indicator names that justified the entry signal.
	Tags []string `yaml:"tags" json:"tags"`
}

// IsOpen reports whether the position has not been closed yet.
func (p *Position) IsOpen() bool {
	return p.ExitDate.IsNone()
}

// Validate enforces the share-count integrity invariant.
func (p *Position) Validate() error {
	if p.Shares < 0 {
		return errors.Newf(errors.ErrCodeNegativeShares,
			"position %s for %s holds %d shares", p.ID, p.Symbol, p.Shares)
	}

	if p.IsOpen() && p.Shares == 0 {
		return errors.Newf(errors.ErrCodeNegativeShares,
			"open position %s for %s holds zero shares", p.ID, p.Symbol)
	}

	return nil
}
