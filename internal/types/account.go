package types

// Account holds the portfolio cash state. It is mutated only by the
// portfolio engine; equity = cash + market value of open positions.
type Account struct {
	StartingBalance float64 `yaml:"starting_balance" json:"starting_balance"`
	Cash            float64 `yaml:"cash" json:"cash"`
	Equity          float64 `yaml:"equity" json:"equity"`
	BuyingPower     float64 `yaml:"buying_power" json:"buying_power"`
}

// NewAccount creates an account fully funded with the starting balance.
func NewAccount(startingBalance float64) *Account {
	return &Account{
		StartingBalance: startingBalance,
		Cash:            startingBalance,
		Equity:          startingBalance,
		BuyingPower:     startingBalance,
	}
}
