package indicator

import (
	"testing"

	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/types"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) SetupTest() {
	suite.engine = NewEngine(logger.NewNopLogger())
}

func (suite *MACDTestSuite) TestMACDLine() {
	macd, err := NewMACD(2, 3, 2)
	suite.Require().NoError(err)

	set, err := suite.engine.Compute(macd, "JFC", closeSeries(1, 2, 3, 4, 5, 6))
	suite.Require().NoError(err)

	line := set.Column("MACD")
	// Unresolved until the slow EMA seeds at its first full window.
	suite.True(isNaN(line[0]))
	suite.True(isNaN(line[1]))

	for i := 2; i < set.Len(); i++ {
		suite.True(defined(line[i]), "MACD should resolve at index %d", i)
		// Fast EMA leads on a rising series.
		suite.Positive(line[i])
	}
}

func (suite *MACDTestSuite) TestSignalLineLagsMACD() {
	macd, err := NewMACD(2, 3, 2)
	suite.Require().NoError(err)

	set, err := suite.engine.Compute(macd, "JFC", closeSeries(1, 2, 3, 4, 5, 6))
	suite.Require().NoError(err)

	signal := set.Column("Signal")
	suite.True(isNaN(signal[2]))
	// Signal seeds once it has a full window of resolved MACD values.
	suite.True(defined(signal[3]))
}

func (suite *MACDTestSuite) TestDirectionOnlyOnCrossoverBars() {
	macd, err := NewMACD(2, 3, 2)
	suite.Require().NoError(err)

	set, err := suite.engine.Compute(macd, "JFC", closeSeries(1, 2, 3, 4, 5, 4, 3, 2, 1, 2, 3, 4))
	suite.Require().NoError(err)

	crossUp := set.Column("MACDCrossoverSignal")
	crossDown := set.Column("SignalCrossoverMACD")

	for i := range set.Direction {
		switch set.Direction[i] {
		case types.DirectionLong:
			suite.Equal(1.0, crossUp[i])
		case types.DirectionShort:
			suite.Equal(1.0, crossDown[i])
		default:
			suite.Equal(0.0, crossUp[i])
			suite.Equal(0.0, crossDown[i])
		}
	}
}

func (suite *MACDTestSuite) TestSubIndicatorsCached() {
	macd, err := NewMACD(2, 3, 2)
	suite.Require().NoError(err)

	series := closeSeries(1, 2, 3, 4, 5, 6)
	_, err = suite.engine.Compute(macd, "JFC", series)
	suite.Require().NoError(err)

	_, ok := suite.engine.Cache().Get(NewKey("EMA", 2, "Close"), "JFC", series.Dates())
	suite.True(ok)
	_, ok = suite.engine.Cache().Get(NewKey("EMA", 3, "Close"), "JFC", series.Dates())
	suite.True(ok)
}
