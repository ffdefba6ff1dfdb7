package backtest

import (
	"strings"
	"testing"
	"time"

	"github.com/pesotrader/pesotrader/internal/sizing"
	"github.com/pesotrader/pesotrader/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseFullConfig() {
	data := `
initial_capital: 100000
broker: PSE
sizing:
  method: EquityPercentage
  risk_pct: 0.01
  unit_risk: 0.2
strategies:
  - DonchianChannel
  - TrendStrength
start_time: 2024-01-01T00:00:00Z
end_time: 2024-12-31T00:00:00Z
data_path: quotes.parquet
results_folder: results
`

	config, err := ParseConfig([]byte(data))
	suite.Require().NoError(err)

	suite.Equal(100_000.0, config.InitialCapital)
	suite.Equal("PSE", config.Broker)
	suite.Equal(sizing.MethodEquityPercentage, config.Sizing.Method)
	suite.Equal(0.01, config.Sizing.Options.RiskPct)
	suite.Equal(0.2, config.Sizing.Options.UnitRisk)
	suite.Equal([]string{"DonchianChannel", "TrendStrength"}, config.Strategies)
	suite.Equal("quotes.parquet", config.DataPath)
	suite.Equal("results", config.ResultsFolder)

	start, err := config.StartTime.Take()
	suite.Require().NoError(err)
	suite.Equal(2024, start.Year())

	suite.True(config.EndTime.IsSome())
}

func (suite *ConfigTestSuite) TestAbsentTimesAreNone() {
	data := `
initial_capital: 50000
broker: ZeroFee
sizing:
  method: FixedFractional
  fraction: 0.2
`

	config, err := ParseConfig([]byte(data))
	suite.Require().NoError(err)

	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestNegativeCapitalRejected() {
	data := `
initial_capital: -1
broker: PSE
sizing:
  method: EquityPercentage
`

	_, err := ParseConfig([]byte(data))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMalformedYAMLRejected() {
	_, err := ParseConfig([]byte("initial_capital: [not a number"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestEmptyConfigDefaults() {
	config := EmptyConfig()

	suite.Zero(config.InitialCapital)
	suite.Equal("PSE", config.Broker)
	suite.Equal(sizing.MethodEquityPercentage, config.Sizing.Method)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.True(strings.Contains(schema, "initial_capital"))
	suite.True(strings.Contains(schema, "EquityPercentage"))
	suite.True(strings.Contains(schema, "ZeroFee"))
	suite.True(strings.Contains(schema, "date-time"))
}

func (suite *ConfigTestSuite) TestTestConfig() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	config := TestConfig(start, end, "ZeroFee")
	suite.NoError(config.Validate())
	suite.Equal(100_000.0, config.InitialCapital)
	suite.Equal("ZeroFee", config.Broker)
	suite.True(config.StartTime.IsSome())
	suite.True(config.EndTime.IsSome())
}
