// Package journal implements the `optsim journal` query commands.
package journal

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	cliconfig "github.com/darshanshenoy/optsim/internal/cli/config"
	"github.com/darshanshenoy/optsim/journal"
)

func New(rc *cliconfig.RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query a SQLite journal from past runs",
	}

	cmd.AddCommand(
		newTradeCmd(rc),
		newDayCmd(rc),
	)

	return cmd
}

func newTradeCmd(rc *cliconfig.RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "trade <trade_id>",
		Short: "Show one round trip by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(rc.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			rec, err := j.GetTrade(args[0])
			if err != nil {
				return err
			}
			printTrade(cmd, rec)
			return nil
		},
	}
}

func newDayCmd(rc *cliconfig.RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List round trips closed on a given day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("bad day %q: %w", args[0], err)
			}

			j, err := journal.NewSQLite(rc.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			recs, err := j.ListTradesClosedBetween(day, day.Add(24*time.Hour))
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				cmd.Println("no trades")
				return nil
			}
			for _, rec := range recs {
				printTrade(cmd, rec)
			}
			return nil
		},
	}
}

func printTrade(cmd *cobra.Command, rec journal.TradeRecord) {
	cmd.Printf("%s  %s %s qty=%d  %s -> %s  entry=%.2f exit=%.2f pnl=%.2f\n",
		rec.TradeID, rec.Instrument, rec.Side, rec.Quantity,
		rec.EntryTime.Format("15:04"), rec.ExitTime.Format("15:04"),
		rec.EntryPrice, rec.ExitPrice, rec.RealizedPL)
}
