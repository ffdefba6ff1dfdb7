package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Action is the side of a ledger entry.
type Action string

const (
	ActionOpen  Action = "OPEN"
	ActionClose Action = "CLOSE"
)

// Transaction is one immutable ledger entry. The ledger is append-only.
type Transaction struct {
	ID     string    `yaml:"id" json:"id" validate:"required,uuid"`
	Action Action    `yaml:"action" json:"action" validate:"required,oneof=OPEN CLOSE"`
	Date   time.Time `yaml:"date" json:"date" validate:"required"`
	Symbol string    `yaml:"symbol" json:"symbol" validate:"required"`
	Shares int64     `yaml:"shares" json:"shares" validate:"gt=0"`
	Price  float64   `yaml:"price" json:"price" validate:"gt=0"`
	// Value is the cash flow after fees: total outlay for OPEN,
	// net proceeds for CLOSE.
	Value float64 `yaml:"value" json:"value" validate:"gte=0"`
	// Tags names the indicators/strategy that triggered the action.
	Tags string `yaml:"tags" json:"tags"`
}

// Validate validates the Transaction struct.
func (t *Transaction) Validate() error {
	validate := validator.New()

	return validate.Struct(t)
}
