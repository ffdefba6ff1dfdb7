// Package portfolio is the backtesting state machine. For each calendar
// date it closes eligible positions, opens new ones, revalues the open
// set, updates the account, and appends to the equity curve — strictly in
// that order, because every step depends on the previous one's state.
package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/broker"
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/sizing"
	"github.com/pesotrader/pesotrader/internal/strategy"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
	"go.uber.org/zap"
)

// Portfolio owns the account, the position set, the transaction ledger,
// and the equity curve for the duration of one backtest run.
type Portfolio struct {
	account      *types.Account
	open         []*types.Position
	closed       []*types.Position
	transactions []types.Transaction
	curve        *EquityCurve
	store        market.QuoteStore
	strategies   []strategy.Strategy
	sizer        sizing.PositionSizer
	broker       broker.CostModel
	logger       *logger.Logger
	seeded       bool
}

// New creates a portfolio funded with the starting balance. Strategy
// order matters: entry and exit evaluation is first-match in registration
// order.
func New(startingBalance float64, store market.QuoteStore, strategies []strategy.Strategy, sizer sizing.PositionSizer, costModel broker.CostModel, l *logger.Logger) *Portfolio {
	return &Portfolio{
		account:      types.NewAccount(startingBalance),
		open:         nil,
		closed:       nil,
		transactions: nil,
		curve:        NewEquityCurve(),
		store:        store,
		strategies:   strategies,
		sizer:        sizer,
		broker:       costModel,
		logger:       l,
		seeded:       false,
	}
}

// Update runs the full per-date cycle for the given symbols. The first
// call seeds the equity curve with the synthetic starting point.
func (p *Portfolio) Update(date time.Time, symbols []string) error {
	if !p.seeded {
		p.curve.Seed(date, p.account.StartingBalance)
		p.seeded = true
	}

	closedToday, err := p.closePositions(date)
	if err != nil {
		return err
	}

	if err := p.openPositions(date, symbols, closedToday); err != nil {
		return err
	}

	if err := p.revalue(date); err != nil {
		return err
	}

	p.updateAccount()
	p.curve.Append(date, p.account.Equity, p.account.Cash)

	return nil
}

// recoverable reports whether an evaluation failure concerns one
// symbol/date only. Those are skipped, never aborted on.
func recoverable(err error) bool {
	return errors.HasCode(err, errors.ErrCodeDataNotFound)
}

// closePositions evaluates every active strategy's exit condition against
// each open position, first match in registration order. Returns the
// symbols closed on this date.
func (p *Portfolio) closePositions(date time.Time) (map[string]bool, error) {
	closedToday := make(map[string]bool)
	var remaining []*types.Position

	for _, pos := range p.open {
		price, err := p.store.ClosePrice(date, pos.Symbol)
		if err != nil {
			return nil, err
		}

		if price.IsNone() {
			// No quote on this date: skip the symbol, keep the position.
			remaining = append(remaining, pos)

			continue
		}

		closed := false

		for _, strat := range p.strategies {
			exit, err := strat.ShouldExit(date, pos.Symbol, pos.EntryDate, pos.Tags, pos.Direction)
			if err != nil {
				if recoverable(err) {
					continue
				}

				return nil, err
			}

			if !exit {
				continue
			}

			if err := p.close(date, pos, price.Unwrap(), strat); err != nil {
				return nil, err
			}

			closedToday[pos.Symbol] = true
			closed = true

			break
		}

		if !closed {
			remaining = append(remaining, pos)
		}
	}

	p.open = remaining

	return closedToday, nil
}

func (p *Portfolio) close(date time.Time, pos *types.Position, price float64, strat strategy.Strategy) error {
	proceeds := p.broker.SellProceeds(price, pos.Shares)

	exitTags, err := strat.IndicatorNames(pos.Direction.Opposite(), date, pos.Symbol)
	if err != nil && !recoverable(err) {
		return err
	}

	pos.ExitDate = optional.Some(date)
	pos.Price = price
	pos.Value = proceeds
	p.closed = append(p.closed, pos)

	p.account.Cash += proceeds
	p.account.BuyingPower = p.account.Cash

	tx := types.Transaction{
		ID:     uuid.New().String(),
		Action: types.ActionClose,
		Date:   date,
		Symbol: pos.Symbol,
		Shares: pos.Shares,
		Price:  price,
		Value:  proceeds,
		Tags:   strings.Join(exitTags, ","),
	}
	p.transactions = append(p.transactions, tx)

	p.logger.Info("Closed position",
		zap.String("symbol", pos.Symbol),
		zap.Time("date", date),
		zap.Int64("shares", pos.Shares),
		zap.Float64("price", price),
		zap.Float64("proceeds", proceeds))

	return nil
}

// openPositions evaluates entry conditions for every symbol without an
// open position that was not closed this date, first match in
// registration order. Unaffordable or zero-share candidates are dropped,
// not retried.
func (p *Portfolio) openPositions(date time.Time, symbols []string, closedToday map[string]bool) error {
	openSymbols := make(map[string]bool, len(p.open))
	for _, pos := range p.open {
		openSymbols[pos.Symbol] = true
	}

	for _, symbol := range symbols {
		if openSymbols[symbol] || closedToday[symbol] {
			continue
		}

		price, err := p.store.ClosePrice(date, symbol)
		if err != nil {
			return err
		}

		if price.IsNone() {
			continue
		}

		for _, strat := range p.strategies {
			direction, err := p.entryDirection(strat, date, symbol)
			if err != nil {
				if recoverable(err) {
					break
				}

				return err
			}

			if direction == types.DirectionNone {
				continue
			}

			if err := p.openPosition(date, symbol, price.Unwrap(), direction, strat); err != nil {
				return err
			}

			break
		}
	}

	return nil
}

func (p *Portfolio) entryDirection(strat strategy.Strategy, date time.Time, symbol string) (types.Direction, error) {
	long, err := strat.IsLong(date, symbol)
	if err != nil {
		return types.DirectionNone, err
	}

	if long {
		return types.DirectionLong, nil
	}

	short, err := strat.IsShort(date, symbol)
	if err != nil {
		return types.DirectionNone, err
	}

	if short {
		return types.DirectionShort, nil
	}

	return types.DirectionNone, nil
}

func (p *Portfolio) openPosition(date time.Time, symbol string, price float64, direction types.Direction, strat strategy.Strategy) error {
	shares, err := p.sizer.Shares(date, symbol, *p.account)
	if err != nil {
		if recoverable(err) {
			return nil
		}

		return err
	}

	if shares <= 0 {
		return nil
	}

	cost := p.broker.BuyCost(price, shares)
	if cost > p.account.BuyingPower {
		p.logger.Debug("Dropped entry: insufficient buying power",
			zap.String("symbol", symbol),
			zap.Float64("cost", cost),
			zap.Float64("buying_power", p.account.BuyingPower))

		return nil
	}

	tags, err := strat.IndicatorNames(direction, date, symbol)
	if err != nil && !recoverable(err) {
		return err
	}

	pos := &types.Position{
		ID:         uuid.New().String(),
		Symbol:     symbol,
		Direction:  direction,
		Shares:     shares,
		EntryDate:  date,
		EntryPrice: price,
		Price:      price,
		Value:      p.broker.SellProceeds(price, shares),
		Tags:       tags,
	}

	if err := pos.Validate(); err != nil {
		return err
	}

	p.account.Cash -= cost
	p.account.BuyingPower = p.account.Cash
	p.open = append(p.open, pos)

	tx := types.Transaction{
		ID:     uuid.New().String(),
		Action: types.ActionOpen,
		Date:   date,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
		Value:  cost,
		Tags:   strings.Join(tags, ","),
	}
	p.transactions = append(p.transactions, tx)

	p.logger.Info("Opened position",
		zap.String("symbol", symbol),
		zap.Time("date", date),
		zap.String("direction", string(direction)),
		zap.Int64("shares", shares),
		zap.Float64("price", price),
		zap.Float64("cost", cost))

	return nil
}

// revalue refreshes each open position at the date's close, marking value
// at the broker's sell-side valuation (conservative: exit-equivalent, not
// raw notional). Symbols without a quote keep their previous mark.
func (p *Portfolio) revalue(date time.Time) error {
	for _, pos := range p.open {
		price, err := p.store.ClosePrice(date, pos.Symbol)
		if err != nil {
			return err
		}

		if price.IsNone() {
			continue
		}

		pos.Price = price.Unwrap()
		pos.Value = p.broker.SellProceeds(pos.Price, pos.Shares)

		if err := pos.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (p *Portfolio) updateAccount() {
	total := 0.0
	for _, pos := range p.open {
		total += pos.Value
	}

	p.account.Equity = p.account.Cash + total
	p.account.BuyingPower = p.account.Cash
}

// Account returns a copy of the current account state.
func (p *Portfolio) Account() types.Account {
	return *p.account
}

// OpenPositions returns the currently open positions.
func (p *Portfolio) OpenPositions() []*types.Position {
	return p.open
}

// ClosedPositions returns the terminal positions.
func (p *Portfolio) ClosedPositions() []*types.Position {
	return p.closed
}

// Transactions returns the append-only ledger.
func (p *Portfolio) Transactions() []types.Transaction {
	return p.transactions
}

// EquityCurve returns the curve accumulated so far.
func (p *Portfolio) EquityCurve() *EquityCurve {
	return p.curve
}

// Equity returns the equity recorded for a date.
func (p *Portfolio) Equity(date time.Time) (float64, bool) {
	if point, err := p.curve.At(date).Take(); err == nil {
		return point.Equity, true
	}

	return 0, false
}

// Cash returns the cash recorded for a date.
func (p *Portfolio) Cash(date time.Time) (float64, bool) {
	if point, err := p.curve.At(date).Take(); err == nil {
		return point.Cash, true
	}

	return 0, false
}

// Drawdown returns the drawdown recorded for a date.
func (p *Portfolio) Drawdown(date time.Time) (float64, bool) {
	if point, err := p.curve.At(date).Take(); err == nil {
		return point.Drawdown, true
	}

	return 0, false
}

// DrawdownPercent returns the drawdown percentage recorded for a date.
func (p *Portfolio) DrawdownPercent(date time.Time) (float64, bool) {
	if point, err := p.curve.At(date).Take(); err == nil {
		return point.DrawdownPercent, true
	}

	return 0, false
}
