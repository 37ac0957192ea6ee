// Package backtest implements the `optsim backtest` command.
package backtest

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yanun0323/logs"

	"github.com/darshanshenoy/optsim/backtest"
	"github.com/darshanshenoy/optsim/config"
	cliconfig "github.com/darshanshenoy/optsim/internal/cli/config"
	"github.com/darshanshenoy/optsim/journal"
	"github.com/darshanshenoy/optsim/market"
	"github.com/darshanshenoy/optsim/report"
	"github.com/darshanshenoy/optsim/sim"
	"github.com/darshanshenoy/optsim/strategies"
)

type flags struct {
	contractFile string
	barsFile     string
	underlying   string
	strategy     string
	lots         int
	cash         float64
	marginRate   float64
	maxLoss      float64
}

func New(rc *cliconfig.RootConfig) *cobra.Command {
	fl := &flags{}

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay one trading day of minute bars against a strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rc, fl)
		},
	}

	cmd.Flags().StringVar(&fl.contractFile, "contracts", "", "contract metadata CSV")
	cmd.Flags().StringVar(&fl.barsFile, "bars", "", "minute bar CSV (optionally .xz)")
	cmd.Flags().StringVar(&fl.underlying, "underlying", "", "underlying symbol (default NIFTY)")
	cmd.Flags().StringVar(&fl.strategy, "strategy", "", "strategy name: noop, straddle, mean-reversion")
	cmd.Flags().IntVar(&fl.lots, "lots", 0, "order size in lots")
	cmd.Flags().Float64Var(&fl.cash, "cash", 0, "initial cash")
	cmd.Flags().Float64Var(&fl.marginRate, "margin-rate", 0, "margin haircut as fraction of notional")
	cmd.Flags().Float64Var(&fl.maxLoss, "max-loss", -1, "max daily loss ceiling (0 disables)")

	return cmd
}

func run(cmd *cobra.Command, rc *cliconfig.RootConfig, fl *flags) error {
	cfg, err := loadConfig(rc, fl)
	if err != nil {
		return err
	}

	data, err := market.Load(cfg.Data.ContractFile, cfg.Data.BarsFile)
	if err != nil {
		return err
	}

	underlying, err := data.Contracts.ResolveUnderlying(cfg.Data.Underlying, data.HasData)
	if err != nil {
		return err
	}
	logs.Infof("underlying %s resolved to %s", cfg.Data.Underlying, underlying.Description)

	mem := &journal.Memory{}
	jnl, err := buildJournal(cfg, rc, mem)
	if err != nil {
		return err
	}
	defer jnl.Close()

	engine := sim.NewEngine(sim.Config{
		InitialCash:  cfg.Account.InitialCash,
		MarginRate:   cfg.Engine.MarginRate,
		MaxDailyLoss: cfg.Engine.MaxDailyLoss,
	}, data.Contracts, jnl)

	strat, err := strategies.ByName(cfg.Strategy.Name, strategies.Params{
		Data:       data,
		Underlying: underlying,
		Lots:       cfg.Strategy.Lots,
	})
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Engine:   engine,
		Risk:     sim.NewRiskMonitor(cfg.Engine.MaxDailyLoss),
		Feed:     backtest.NewSeriesFeed(data.Series),
		Strategy: strat,
	}

	res, runErr := runner.Run(cmd.Context())

	// A failed run still prints the partial trade log gathered so far.
	report.WriteConsole(os.Stdout, res, engine.Trades())
	if runErr != nil {
		return runErr
	}

	if cfg.Report.FillsCSV != "" {
		if err := report.WriteFillsCSV(cfg.Report.FillsCSV, mem.Fills); err != nil {
			return fmt.Errorf("write fills report: %w", err)
		}
	}
	if cfg.Report.EquityChart != "" {
		if err := report.WriteEquityChart(cfg.Report.EquityChart, mem.Equity); err != nil {
			return fmt.Errorf("write equity chart: %w", err)
		}
	}
	return nil
}

func loadConfig(rc *cliconfig.RootConfig, fl *flags) (*config.Config, error) {
	var cfg *config.Config
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	// Flags override file values.
	if fl.contractFile != "" {
		cfg.Data.ContractFile = fl.contractFile
	}
	if fl.barsFile != "" {
		cfg.Data.BarsFile = fl.barsFile
	}
	if fl.underlying != "" {
		cfg.Data.Underlying = fl.underlying
	}
	if fl.strategy != "" {
		cfg.Strategy.Name = fl.strategy
	}
	if fl.lots > 0 {
		cfg.Strategy.Lots = fl.lots
	}
	if fl.cash > 0 {
		cfg.Account.InitialCash = fl.cash
	}
	if fl.marginRate > 0 {
		cfg.Engine.MarginRate = fl.marginRate
	}
	if fl.maxLoss >= 0 {
		cfg.Engine.MaxDailyLoss = fl.maxLoss
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildJournal(cfg *config.Config, rc *cliconfig.RootConfig, mem *journal.Memory) (journal.Journal, error) {
	// Memory always rides along so reports can read the run back without
	// touching disk.
	multi := journal.Multi{mem}

	switch strings.ToLower(cfg.Journal.Type) {
	case "csv":
		csvJ, err := journal.NewCSV(cfg.Journal.FillsFile, cfg.Journal.TradesFile, cfg.Journal.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		multi = append(multi, csvJ)
	case "sqlite":
		path := cfg.Journal.DBPath
		if path == "" {
			path = rc.DBPath
		}
		sqlJ, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		multi = append(multi, sqlJ)
	}
	return multi, nil
}
