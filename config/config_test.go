package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
account:
  initial_cash: 500000
engine:
  margin_rate: 0.2
  max_daily_loss: 25000
data:
  contract_file: contracts.csv
  bars_file: bars.csv.xz
  underlying: BANKNIFTY
strategy:
  name: mean-reversion
  lots: 3
journal:
  type: sqlite
  db_path: run.sqlite
`))
	require.NoError(t, err)

	assert.Equal(t, 500_000.0, cfg.Account.InitialCash)
	assert.Equal(t, 0.2, cfg.Engine.MarginRate)
	assert.Equal(t, 25_000.0, cfg.Engine.MaxDailyLoss)
	assert.Equal(t, "BANKNIFTY", cfg.Data.Underlying)
	assert.Equal(t, "mean-reversion", cfg.Strategy.Name)
	assert.Equal(t, 3, cfg.Strategy.Lots)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "run.sqlite", cfg.Journal.DBPath)
}

func TestLoadFromFileJSON(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `{
		"account": {"initial_cash": 750000},
		"data": {"contract_file": "c.csv", "bars_file": "b.csv", "underlying": "NIFTY"},
		"strategy": {"name": "noop", "lots": 1},
		"journal": {"type": "none"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 750_000.0, cfg.Account.InitialCash)
	assert.Equal(t, 0.15, cfg.Engine.MarginRate, "defaults fill unset fields")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
data:
  contract_file: c.csv
  bars_file: b.csv
`))
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, cfg.Account.InitialCash)
	assert.Equal(t, "NIFTY", cfg.Data.Underlying)
	assert.Equal(t, "straddle", cfg.Strategy.Name)
	assert.Equal(t, "csv", cfg.Journal.Type)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Data.ContractFile = "c.csv"
		c.Data.BarsFile = "b.csv"
		return c
	}
	require.NoError(t, valid().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero cash", func(c *Config) { c.Account.InitialCash = 0 }, "initial_cash"},
		{"margin rate over 1", func(c *Config) { c.Engine.MarginRate = 1.5 }, "margin_rate"},
		{"negative loss ceiling", func(c *Config) { c.Engine.MaxDailyLoss = -1 }, "max_daily_loss"},
		{"missing contracts", func(c *Config) { c.Data.ContractFile = "" }, "contract_file"},
		{"missing bars", func(c *Config) { c.Data.BarsFile = "" }, "bars_file"},
		{"missing underlying", func(c *Config) { c.Data.Underlying = "" }, "underlying"},
		{"missing strategy", func(c *Config) { c.Strategy.Name = "" }, "strategy.name"},
		{"zero lots", func(c *Config) { c.Strategy.Lots = 0 }, "lots"},
		{"csv without files", func(c *Config) { c.Journal.FillsFile = "" }, "fills_file"},
		{"bogus journal type", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFromFile(writeConfig(t, ":::not yaml or json:::"))
	assert.Error(t, err)
}
