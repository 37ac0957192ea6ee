// Package config loads and validates the simulation configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Report   ReportConfig   `json:"report" yaml:"report"`
}

// AccountConfig holds account initialization parameters.
type AccountConfig struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
}

// EngineConfig holds the fill engine and risk monitor parameters.
type EngineConfig struct {
	MarginRate   float64 `json:"margin_rate" yaml:"margin_rate"`
	MaxDailyLoss float64 `json:"max_daily_loss,omitempty" yaml:"max_daily_loss,omitempty"` // 0 disables
}

// DataConfig points at the day's input files.
type DataConfig struct {
	ContractFile string `json:"contract_file" yaml:"contract_file"`
	BarsFile     string `json:"bars_file" yaml:"bars_file"`
	Underlying   string `json:"underlying" yaml:"underlying"`
}

// StrategyConfig selects and sizes the strategy.
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`
	Lots int    `json:"lots" yaml:"lots"`
}

// JournalConfig selects the persistence backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite", or "none"
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ReportConfig controls the run artifacts.
type ReportConfig struct {
	FillsCSV    string `json:"fills_csv,omitempty" yaml:"fills_csv,omitempty"`
	EquityChart string `json:"equity_chart,omitempty" yaml:"equity_chart,omitempty"`
}

// LoadFromFile reads a YAML or JSON configuration and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Engine.MarginRate <= 0 || c.Engine.MarginRate > 1 {
		return fmt.Errorf("engine.margin_rate must be in (0, 1]")
	}
	if c.Engine.MaxDailyLoss < 0 {
		return fmt.Errorf("engine.max_daily_loss must not be negative")
	}
	if c.Data.ContractFile == "" {
		return fmt.Errorf("data.contract_file is required")
	}
	if c.Data.BarsFile == "" {
		return fmt.Errorf("data.bars_file is required")
	}
	if c.Data.Underlying == "" {
		return fmt.Errorf("data.underlying is required")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.Lots <= 0 {
		return fmt.Errorf("strategy.lots must be positive")
	}
	switch strings.ToLower(c.Journal.Type) {
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file, trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		// db_path may stay empty; the CLI falls back to its --db flag.
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{InitialCash: 1_000_000},
		Engine: EngineConfig{
			MarginRate: 0.15,
		},
		Data: DataConfig{
			Underlying: "NIFTY",
		},
		Strategy: StrategyConfig{
			Name: "straddle",
			Lots: 1,
		},
		Journal: JournalConfig{
			Type:       "csv",
			FillsFile:  "./fills.csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Report: ReportConfig{
			FillsCSV:    "./report_fills.csv",
			EquityChart: "./equity.html",
		},
	}
}
