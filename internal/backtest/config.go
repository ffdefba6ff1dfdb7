// Package backtest drives a portfolio through the store's trading dates
// and carries the run configuration.
package backtest

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/pesotrader/pesotrader/internal/broker"
	"github.com/pesotrader/pesotrader/internal/sizing"
	"github.com/pesotrader/pesotrader/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SizingConfig selects a position sizing method and its parameters.
type SizingConfig struct {
	Method  sizing.Method  `yaml:"method" json:"method" jsonschema:"title=Sizing Method,description=The position sizing method" validate:"required"`
	Options sizing.Options `yaml:",inline" json:"options"`
}

// Config is the full run configuration, loaded from YAML.
type Config struct {
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital in PHP,minimum=0" validate:"gte=0"`
	Broker         string                     `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The cost model applied to fills" validate:"required"`
	Sizing         SizingConfig               `yaml:"sizing" json:"sizing"`
	Strategies     []string                   `yaml:"strategies" json:"strategies" jsonschema:"title=Strategies,description=Strategy names evaluated in first-match order"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the simulated period"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the simulated period"`
	DataPath       string                     `yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=Parquet or CSV file holding the quote history"`
	ResultsFolder  string                     `yaml:"results_folder" json:"results_folder" jsonschema:"title=Results Folder,description=Directory receiving the run state and parquet exports"`
}

// UnmarshalYAML implements custom unmarshaling so absent start/end times
// map to None rather than the zero time.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type config struct {
		InitialCapital float64      `yaml:"initial_capital"`
		Broker         string       `yaml:"broker"`
		Sizing         SizingConfig `yaml:"sizing"`
		Strategies     []string     `yaml:"strategies"`
		StartTime      *time.Time   `yaml:"start_time"`
		EndTime        *time.Time   `yaml:"end_time"`
		DataPath       string       `yaml:"data_path"`
		ResultsFolder  string       `yaml:"results_folder"`
	}

	var parsed config
	if err := unmarshal(&parsed); err != nil {
		return err
	}

	c.InitialCapital = parsed.InitialCapital
	c.Broker = parsed.Broker
	c.Sizing = parsed.Sizing
	c.Strategies = parsed.Strategies
	c.DataPath = parsed.DataPath
	c.ResultsFolder = parsed.ResultsFolder

	if parsed.StartTime != nil {
		c.StartTime = optional.Some(*parsed.StartTime)
	}

	if parsed.EndTime != nil {
		c.EndTime = optional.Some(*parsed.EndTime)
	}

	return nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	return nil
}

// ParseConfig unmarshals and validates a YAML configuration.
func ParseConfig(data []byte) (Config, error) {
	config := EmptyConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest configuration", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if strings.Contains(t.String(), "sizing.Method") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: sizing.AllMethods,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	if prop, ok := schema.Properties.Get("broker"); ok {
		prop.Enum = broker.AllBrokers
	}

	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for a backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a Config with default values.
func EmptyConfig() Config {
	return Config{
		InitialCapital: 0,
		Broker:         "PSE",
		Sizing: SizingConfig{
			Method:  sizing.MethodEquityPercentage,
			Options: sizing.DefaultOptions(),
		},
		Strategies:    nil,
		StartTime:     optional.None[time.Time](),
		EndTime:       optional.None[time.Time](),
		DataPath:      "",
		ResultsFolder: "",
	}
}

// TestConfig returns a Config suitable for tests.
func TestConfig(startTime, endTime time.Time, brokerName string) Config {
	config := EmptyConfig()
	config.InitialCapital = 100_000
	config.Broker = brokerName
	config.Strategies = []string{"DonchianChannel"}
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}
