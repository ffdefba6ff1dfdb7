package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pesotrader/pesotrader/internal/backtest"
	"github.com/pesotrader/pesotrader/internal/broker"
	"github.com/pesotrader/pesotrader/internal/indicator"
	"github.com/pesotrader/pesotrader/internal/logger"
	"github.com/pesotrader/pesotrader/internal/market"
	"github.com/pesotrader/pesotrader/internal/portfolio"
	"github.com/pesotrader/pesotrader/internal/sizing"
	"github.com/pesotrader/pesotrader/internal/strategy"
	"github.com/pesotrader/pesotrader/internal/version"
	"github.com/urfave/cli/v3"
)

// runAction loads the configuration, wires the quote store, strategies,
// sizer, and cost model into a portfolio, runs the date loop, and persists
// the results.
func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	config, err := backtest.ParseConfig(data)
	if err != nil {
		return err
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	store, err := market.NewDuckDBQuoteStore(l)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Initialize(config.DataPath); err != nil {
		return err
	}

	engine := indicator.NewEngine(l)

	registry := strategy.DefaultRegistry()
	strategies := make([]strategy.Strategy, 0, len(config.Strategies))

	for _, name := range config.Strategies {
		strat, err := registry.Create(name, engine, store)
		if err != nil {
			return err
		}

		strategies = append(strategies, strat)
	}

	sizer, err := sizing.New(config.Sizing.Method, store, engine, config.Sizing.Options)
	if err != nil {
		return err
	}

	costModel, err := broker.New(config.Broker)
	if err != nil {
		return err
	}

	p := portfolio.New(config.InitialCapital, store, strategies, sizer, costModel, l)

	if _, err := backtest.Run(store, p, config.StartTime, config.EndTime, l); err != nil {
		return err
	}

	if config.ResultsFolder == "" {
		return nil
	}

	if err := os.MkdirAll(config.ResultsFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create results folder: %w", err)
	}

	state, err := portfolio.NewState(filepath.Join(config.ResultsFolder, "state.db"), l)
	if err != nil {
		return err
	}
	defer state.Close()

	if err := state.Initialize(); err != nil {
		return err
	}

	if err := state.Save(p); err != nil {
		return err
	}

	return state.ExportParquet(config.ResultsFolder)
}

// schemaAction prints the JSON schema of the configuration file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := backtest.EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run a trading-strategy backtest over daily OHLCV data",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML backtest configuration",
				Value:   "config/backtest.yaml",
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
