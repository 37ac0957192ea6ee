// Package cli assembles the optsim command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darshanshenoy/optsim/internal/cli/backtest"
	"github.com/darshanshenoy/optsim/internal/cli/config"
	"github.com/darshanshenoy/optsim/internal/cli/data"
	"github.com/darshanshenoy/optsim/internal/cli/journal"
)

func NewRootCmd() *cobra.Command {
	rc := &config.RootConfig{}

	cmd := &cobra.Command{
		Use:           "optsim",
		Short:         "One-day option/futures backtest simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./optsim.sqlite", "SQLite journal database")

	cmd.AddCommand(
		backtest.New(rc),
		journal.New(rc),
		data.New(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("optsim (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
