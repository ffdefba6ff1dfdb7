package portfolio

import (
	"testing"
	"time"

	"github.com/pesotrader/pesotrader/internal/broker"
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/sizing"
	"github.com/pesotrader/pesotrader/internal/strategy"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/stretchr/testify/suite"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// scriptedStrategy drives the portfolio from fixed per-date signals so the
// tests control exactly when entries and exits fire.
type scriptedStrategy struct {
	name   string
	longs  map[string][]time.Time
	shorts map[string][]time.Time
	exits  map[string][]time.Time
	tags   []string
}

func (s *scriptedStrategy) Name() string { return s.name }

func contains(dates []time.Time, date time.Time) bool {
	for _, d := range dates {
		if d.Equal(date) {
			return true
		}
	}

	return false
}

func (s *scriptedStrategy) IsLong(date time.Time, symbol string) (bool, error) {
	return contains(s.longs[symbol], date), nil
}

func (s *scriptedStrategy) IsShort(date time.Time, symbol string) (bool, error) {
	return contains(s.shorts[symbol], date), nil
}

func (s *scriptedStrategy) IndicatorNames(_ types.Direction, _ time.Time, _ string) ([]string, error) {
	return s.tags, nil
}

func (s *scriptedStrategy) ShouldExit(date time.Time, symbol string, _ time.Time, _ []string, _ types.Direction) (bool, error) {
	return contains(s.exits[symbol], date), nil
}

var _ strategy.Strategy = (*scriptedStrategy)(nil)

type PortfolioTestSuite struct {
	suite.Suite
	store *market.MemoryQuoteStore
	sizer sizing.PositionSizer
}

func TestPortfolioSuite(t *testing.T) {
	suite.Run(t, new(PortfolioTestSuite))
}

func (suite *PortfolioTestSuite) SetupTest() {
	suite.store = market.NewMemoryQuoteStore()

	// One symbol, closes 10, 10, 12, 8.
	series := types.QuoteSeries{
		{Time: day(1), Open: 10, High: 10, Low: 10, Close: 10, Volume: 1000},
		{Time: day(2), Open: 10, High: 10, Low: 10, Close: 10, Volume: 1000},
		{Time: day(3), Open: 12, High: 12, Low: 12, Close: 12, Volume: 1000},
		{Time: day(4), Open: 8, High: 8, Low: 8, Close: 8, Volume: 1000},
	}
	suite.Require().NoError(suite.store.AddSeries("JFC", series))

	sizer, err := sizing.NewEquityPercentage(suite.store, 0.01, 0.2)
	suite.Require().NoError(err)
	suite.sizer = sizer
}

func (suite *PortfolioTestSuite) newPortfolio(strategies ...strategy.Strategy) *Portfolio {
	return New(100_000, suite.store, strategies, suite.sizer, broker.NewZeroFeeBroker(), logger.NewNopLogger())
}

func (suite *PortfolioTestSuite) runAllDates(p *Portfolio) {
	for d := 1; d <= 4; d++ {
		suite.Require().NoError(p.Update(day(d), []string{"JFC"}))
	}
}

func (suite *PortfolioTestSuite) TestRideThroughDrawdown() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		tags:  []string{"SMA_2_Close"},
	}
	p := suite.newPortfolio(strat)

	suite.runAllDates(p)

	// C = 100000*0.01 = 1000, R = 10*0.2 = 2 -> 500 shares at 10/share.
	suite.Require().Len(p.OpenPositions(), 1)
	pos := p.OpenPositions()[0]
	suite.Equal(int64(500), pos.Shares)
	suite.Equal(types.DirectionLong, pos.Direction)
	suite.Equal([]string{"SMA_2_Close"}, pos.Tags)

	account := p.Account()
	suite.InDelta(95_000, account.Cash, 1e-9)

	equityAt := func(d int) float64 {
		equity, ok := p.Equity(day(d))
		suite.Require().True(ok)

		return equity
	}

	suite.InDelta(100_000, equityAt(1), 1e-9)
	suite.InDelta(100_000, equityAt(2), 1e-9)
	suite.InDelta(101_000, equityAt(3), 1e-9)
	suite.InDelta(99_000, equityAt(4), 1e-9)
	suite.Less(equityAt(4), equityAt(3))
}

func (suite *PortfolioTestSuite) TestDrawdownTurnsNegativeOnTheDropDate() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
	}
	p := suite.newPortfolio(strat)

	suite.runAllDates(p)

	for d := 1; d <= 3; d++ {
		percent, ok := p.DrawdownPercent(day(d))
		suite.Require().True(ok)
		suite.Zero(percent, "day %d", d)
	}

	percent, ok := p.DrawdownPercent(day(4))
	suite.Require().True(ok)
	suite.Negative(percent)
	suite.InDelta(100*-2_000.0/101_000, percent, 1e-9)

	drawdown, ok := p.Drawdown(day(4))
	suite.Require().True(ok)
	suite.InDelta(-2_000, drawdown, 1e-9)
}

func (suite *PortfolioTestSuite) TestAccountingIdentityEveryDate() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
	}
	p := suite.newPortfolio(strat)

	for d := 1; d <= 4; d++ {
		suite.Require().NoError(p.Update(day(d), []string{"JFC"}))

		total := 0.0
		for _, pos := range p.OpenPositions() {
			total += pos.Value
		}

		equity, ok := p.Equity(day(d))
		suite.Require().True(ok)
		cash, ok := p.Cash(day(d))
		suite.Require().True(ok)

		suite.InDelta(cash+total, equity, 1e-9, "day %d", d)
	}
}

func (suite *PortfolioTestSuite) TestSyntheticSeedPoint() {
	p := suite.newPortfolio(&scriptedStrategy{name: "scripted"})

	suite.Require().NoError(p.Update(day(1), []string{"JFC"}))

	points := p.EquityCurve().Points()
	suite.Require().Len(points, 2)
	suite.True(points[0].Date.Equal(day(1).AddDate(0, 0, -1)))
	suite.Equal(100_000.0, points[0].Equity)
	suite.Equal(100_000.0, points[0].Cash)
}

func (suite *PortfolioTestSuite) TestScriptedExitClosesPosition() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		exits: map[string][]time.Time{"JFC": {day(3)}},
		tags:  []string{"SMA_2_Close"},
	}
	p := suite.newPortfolio(strat)

	suite.runAllDates(p)

	suite.Empty(p.OpenPositions())
	suite.Require().Len(p.ClosedPositions(), 1)

	pos := p.ClosedPositions()[0]
	suite.False(pos.IsOpen())

	exitDate, err := pos.ExitDate.Take()
	suite.Require().NoError(err)
	suite.True(exitDate.Equal(day(3)))
	suite.Equal(12.0, pos.Price)

	// 95000 cash + 500 shares sold at 12 with zero fees.
	account := p.Account()
	suite.InDelta(101_000, account.Cash, 1e-9)
	suite.InDelta(101_000, account.Equity, 1e-9)

	// Flat after the close: the day-4 drop no longer hurts.
	equity, ok := p.Equity(day(4))
	suite.Require().True(ok)
	suite.InDelta(101_000, equity, 1e-9)
}

func (suite *PortfolioTestSuite) TestLedgerRecordsBothSides() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		exits: map[string][]time.Time{"JFC": {day(3)}},
		tags:  []string{"SMA_2_Close", "MACross_100_120"},
	}
	p := suite.newPortfolio(strat)

	suite.runAllDates(p)

	transactions := p.Transactions()
	suite.Require().Len(transactions, 2)

	open := transactions[0]
	suite.Equal(types.ActionOpen, open.Action)
	suite.Equal("JFC", open.Symbol)
	suite.Equal(int64(500), open.Shares)
	suite.InDelta(5_000, open.Value, 1e-9)
	suite.Equal("SMA_2_Close,MACross_100_120", open.Tags)
	suite.NoError(open.Validate())

	sell := transactions[1]
	suite.Equal(types.ActionClose, sell.Action)
	suite.Equal(int64(500), sell.Shares)
	suite.InDelta(6_000, sell.Value, 1e-9)
	suite.NoError(sell.Validate())
}

func (suite *PortfolioTestSuite) TestNoReentrySameDateAfterClose() {
	// Long signal fires again on the exit date; the close must win and the
	// symbol must sit out the rest of that date.
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1), day(3)}},
		exits: map[string][]time.Time{"JFC": {day(3)}},
	}
	p := suite.newPortfolio(strat)

	for d := 1; d <= 3; d++ {
		suite.Require().NoError(p.Update(day(d), []string{"JFC"}))
	}

	suite.Empty(p.OpenPositions())
	suite.Len(p.ClosedPositions(), 1)
}

func (suite *PortfolioTestSuite) TestMissingQuoteKeepsPositionAndMark() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		exits: map[string][]time.Time{"JFC": {day(9)}},
	}
	p := suite.newPortfolio(strat)

	suite.runAllDates(p)

	// Day 9 has no JFC quote: the exit cannot fill, the position stays,
	// and the previous mark carries forward into the equity point.
	suite.Require().NoError(p.Update(day(9), []string{"JFC"}))

	suite.Require().Len(p.OpenPositions(), 1)
	suite.Equal(8.0, p.OpenPositions()[0].Price)

	equity, ok := p.Equity(day(9))
	suite.Require().True(ok)
	suite.InDelta(99_000, equity, 1e-9)
}

func (suite *PortfolioTestSuite) TestFirstMatchStrategyWins() {
	first := &scriptedStrategy{
		name:  "first",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		tags:  []string{"first_tag"},
	}
	second := &scriptedStrategy{
		name:  "second",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		tags:  []string{"second_tag"},
	}
	p := suite.newPortfolio(first, second)

	suite.Require().NoError(p.Update(day(1), []string{"JFC"}))

	suite.Require().Len(p.OpenPositions(), 1)
	suite.Equal([]string{"first_tag"}, p.OpenPositions()[0].Tags)
}

func (suite *PortfolioTestSuite) TestNoSignalNoTrade() {
	p := suite.newPortfolio(&scriptedStrategy{name: "scripted"})

	suite.runAllDates(p)

	suite.Empty(p.OpenPositions())
	suite.Empty(p.Transactions())

	for d := 1; d <= 4; d++ {
		equity, ok := p.Equity(day(d))
		suite.Require().True(ok)
		suite.InDelta(100_000, equity, 1e-9)
	}
}

func (suite *PortfolioTestSuite) TestShortEntry() {
	strat := &scriptedStrategy{
		name:   "scripted",
		shorts: map[string][]time.Time{"JFC": {day(1)}},
	}
	p := suite.newPortfolio(strat)

	suite.Require().NoError(p.Update(day(1), []string{"JFC"}))

	suite.Require().Len(p.OpenPositions(), 1)
	suite.Equal(types.DirectionShort, p.OpenPositions()[0].Direction)
}

func (suite *PortfolioTestSuite) TestPSEFeesReduceEquity() {
	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
	}
	p := New(100_000, suite.store, []strategy.Strategy{strat}, suite.sizer, broker.NewPSEBroker(), logger.NewNopLogger())

	suite.Require().NoError(p.Update(day(1), []string{"JFC"}))

	// Buying costs more than notional and the mark is sell-side, so the
	// round-trip friction shows up immediately.
	account := p.Account()
	suite.Less(account.Cash, 95_000.0)
	suite.Less(account.Equity, 100_000.0)

	pos := p.OpenPositions()[0]
	suite.Less(pos.Value, float64(pos.Shares)*pos.Price)
}

type StateTestSuite struct {
	suite.Suite
	state *State
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateTestSuite))
}

func (suite *StateTestSuite) SetupTest() {
	state, err := NewState("", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(state.Initialize())
	suite.state = state
}

func (suite *StateTestSuite) TearDownTest() {
	suite.NoError(suite.state.Close())
}

func (suite *StateTestSuite) runPortfolio() *Portfolio {
	store := market.NewMemoryQuoteStore()
	series := types.QuoteSeries{
		{Time: day(1), Open: 10, High: 10, Low: 10, Close: 10, Volume: 1000},
		{Time: day(2), Open: 10, High: 10, Low: 10, Close: 10, Volume: 1000},
		{Time: day(3), Open: 12, High: 12, Low: 12, Close: 12, Volume: 1000},
		{Time: day(4), Open: 8, High: 8, Low: 8, Close: 8, Volume: 1000},
	}
	suite.Require().NoError(store.AddSeries("JFC", series))

	sizer, err := sizing.NewEquityPercentage(store, 0.01, 0.2)
	suite.Require().NoError(err)

	strat := &scriptedStrategy{
		name:  "scripted",
		longs: map[string][]time.Time{"JFC": {day(1)}},
		tags:  []string{"SMA_2_Close"},
	}
	p := New(100_000, store, []strategy.Strategy{strat}, sizer, broker.NewZeroFeeBroker(), logger.NewNopLogger())

	for d := 1; d <= 4; d++ {
		suite.Require().NoError(p.Update(day(d), []string{"JFC"}))
	}

	return p
}

func (suite *StateTestSuite) TestRoundTrip() {
	p := suite.runPortfolio()
	suite.Require().NoError(suite.state.Save(p))

	points, err := suite.state.LoadEquityCurve()
	suite.Require().NoError(err)
	suite.Require().Len(points, 5)
	suite.InDelta(100_000, points[0].Equity, 1e-9)
	suite.InDelta(99_000, points[4].Equity, 1e-9)
	suite.InDelta(-2_000, points[4].Drawdown, 1e-9)

	positions, err := suite.state.LoadPositions()
	suite.Require().NoError(err)
	suite.Require().Len(positions, 1)
	suite.Equal("JFC", positions[0].Symbol)
	suite.Equal(int64(500), positions[0].Shares)
	suite.True(positions[0].IsOpen())
	suite.Equal([]string{"SMA_2_Close"}, positions[0].Tags)

	transactions, err := suite.state.LoadTransactions()
	suite.Require().NoError(err)
	suite.Require().Len(transactions, 1)
	suite.Equal(types.ActionOpen, transactions[0].Action)
}

func (suite *StateTestSuite) TestSnapshotMatchesLastEquityRow() {
	p := suite.runPortfolio()
	suite.Require().NoError(suite.state.Save(p))

	snapshot, err := suite.state.LoadSnapshot()
	suite.Require().NoError(err)

	suite.InDelta(100_000, snapshot.Account.StartingBalance, 1e-9)
	suite.InDelta(95_000, snapshot.Account.Cash, 1e-9)
	suite.InDelta(99_000, snapshot.Account.Equity, 1e-9)
	suite.True(snapshot.LastDate.Equal(day(4)))
	suite.Len(snapshot.OpenPositions, 1)
}

func (suite *StateTestSuite) TestSnapshotMismatchDetected() {
	p := suite.runPortfolio()
	suite.Require().NoError(suite.state.Save(p))

	// Corrupt the open position's value so cash + value != equity.
	_, err := suite.state.db.Exec("UPDATE positions SET value = value + 1000 WHERE exit_date IS NULL")
	suite.Require().NoError(err)

	_, err = suite.state.LoadSnapshot()
	suite.Error(err)
}

func (suite *StateTestSuite) TestSnapshotWithoutDataErrors() {
	_, err := suite.state.LoadSnapshot()
	suite.Error(err)
}

func (suite *StateTestSuite) TestSaveIsIdempotent() {
	p := suite.runPortfolio()
	suite.Require().NoError(suite.state.Save(p))
	suite.Require().NoError(suite.state.Save(p))

	points, err := suite.state.LoadEquityCurve()
	suite.Require().NoError(err)
	suite.Len(points, 5)
}
