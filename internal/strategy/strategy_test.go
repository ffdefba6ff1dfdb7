package strategy

import (
	"testing"
	"time"

	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/pesotrader/pesotrader/pkg/errors"
	"github.com/stretchr/testify/suite"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// scriptedRunner reports a fixed Direction per date, for exercising the
// composition rules without real indicator math.
type scriptedRunner struct {
	name       string
	directions map[time.Time]types.Direction
}

func (s *scriptedRunner) Name() string {
	return s.name
}

func (s *scriptedRunner) Key() indicator.Key {
	return indicator.NewKey(s.name, 1)
}

func (s *scriptedRunner) Compute(_ *indicator.Engine, symbol string, series types.QuoteSeries) (*indicator.AttributeSet, error) {
	set := indicator.NewAttributeSet(s.Key(), symbol, series.Dates())
	for i, d := range set.Dates {
		set.Direction[i] = s.directions[d]
	}

	return set, nil
}

type StrategyTestSuite struct {
	suite.Suite
	engine *indicator.Engine
	store  *market.MemoryQuoteStore
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func (suite *StrategyTestSuite) SetupTest() {
	suite.engine = indicator.NewEngine(logger.NewNopLogger())
	suite.store = market.NewMemoryQuoteStore()

	series := make(types.QuoteSeries, 6)
	for i := range series {
		series[i] = types.Quote{Time: day(i + 1), Open: 10, High: 11, Low: 9, Close: 10, Volume: 1000}
	}

	suite.Require().NoError(suite.store.AddSeries("JFC", series))
}

func (suite *StrategyTestSuite) TestLongRequiresAllIndicators() {
	a := &scriptedRunner{name: "A", directions: map[time.Time]types.Direction{
		day(1): types.DirectionLong,
		day(2): types.DirectionLong,
	}}
	b := &scriptedRunner{name: "B", directions: map[time.Time]types.Direction{
		day(2): types.DirectionLong,
	}}

	composite := NewComposite("test", suite.engine, suite.store, a, b)

	long, err := composite.IsLong(day(1), "JFC")
	suite.Require().NoError(err)
	suite.False(long, "one agreeing indicator is not enough")

	long, err = composite.IsLong(day(2), "JFC")
	suite.Require().NoError(err)
	suite.True(long)
}

func (suite *StrategyTestSuite) TestZeroIndicatorsReportsFalse() {
	composite := NewComposite("empty", suite.engine, suite.store)

	long, err := composite.IsLong(day(1), "JFC")
	suite.Require().NoError(err)
	suite.False(long)

	short, err := composite.IsShort(day(1), "JFC")
	suite.Require().NoError(err)
	suite.False(short)
}

func (suite *StrategyTestSuite) TestIndicatorNames() {
	a := &scriptedRunner{name: "A", directions: map[time.Time]types.Direction{
		day(1): types.DirectionLong,
	}}
	b := &scriptedRunner{name: "B", directions: map[time.Time]types.Direction{
		day(1): types.DirectionShort,
	}}

	composite := NewComposite("test", suite.engine, suite.store, a, b)

	names, err := composite.IndicatorNames(types.DirectionLong, day(1), "JFC")
	suite.Require().NoError(err)
	suite.Equal([]string{"A_1"}, names)

	names, err = composite.IndicatorNames(types.DirectionShort, day(1), "JFC")
	suite.Require().NoError(err)
	suite.Equal([]string{"B_1"}, names)
}

func (suite *StrategyTestSuite) TestExitWaitsForAllEntryTags() {
	// A flips short on day 3, B only on day 5.
	a := &scriptedRunner{name: "A", directions: map[time.Time]types.Direction{
		day(1): types.DirectionLong,
		day(3): types.DirectionShort,
	}}
	b := &scriptedRunner{name: "B", directions: map[time.Time]types.Direction{
		day(1): types.DirectionLong,
		day(5): types.DirectionShort,
	}}

	composite := NewComposite("test", suite.engine, suite.store, a, b)
	entryTags := []string{"A_1", "B_1"}

	exit, err := composite.ShouldExit(day(4), "JFC", day(1), entryTags, types.DirectionLong)
	suite.Require().NoError(err)
	suite.False(exit, "B has not reported the opposite direction yet")

	exit, err = composite.ShouldExit(day(5), "JFC", day(1), entryTags, types.DirectionLong)
	suite.Require().NoError(err)
	suite.True(exit)
}

func (suite *StrategyTestSuite) TestExitTagsAccumulateSinceEntry() {
	// A is short only on day 2; the signal must still count on day 4.
	a := &scriptedRunner{name: "A", directions: map[time.Time]types.Direction{
		day(2): types.DirectionShort,
	}}

	composite := NewComposite("test", suite.engine, suite.store, a)

	exit, err := composite.ShouldExit(day(4), "JFC", day(1), []string{"A_1"}, types.DirectionLong)
	suite.Require().NoError(err)
	suite.True(exit)
}

func (suite *StrategyTestSuite) TestUnknownSymbolPropagatesError() {
	a := &scriptedRunner{name: "A", directions: map[time.Time]types.Direction{}}
	composite := NewComposite("test", suite.engine, suite.store, a)

	_, err := composite.IsLong(day(1), "XYZ")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

type RegistryTestSuite struct {
	suite.Suite
	engine *indicator.Engine
	store  *market.MemoryQuoteStore
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.engine = indicator.NewEngine(logger.NewNopLogger())
	suite.store = market.NewMemoryQuoteStore()
}

func (suite *RegistryTestSuite) TestCreateBuiltins() {
	registry := DefaultRegistry()

	for _, name := range []string{"DonchianChannel", "ATRChannelBreakout", "TrendStrength", "StopPrice"} {
		s, err := registry.Create(name, suite.engine, suite.store)
		suite.Require().NoError(err)
		suite.Equal(name, s.Name())
	}
}

func (suite *RegistryTestSuite) TestUnknownStrategy() {
	registry := DefaultRegistry()

	_, err := registry.Create("Turtle", suite.engine, suite.store)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (suite *RegistryTestSuite) TestDuplicateRegistration() {
	registry := DefaultRegistry()

	err := registry.Register("DonchianChannel", func(engine *indicator.Engine, store market.QuoteStore) (Strategy, error) {
		return nil, nil
	})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyAlreadyExists))
}
