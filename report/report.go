// Package report renders a finished run: console summary, tabular CSV of
// fills, and an equity-curve chart.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/darshanshenoy/optsim/backtest"
	"github.com/darshanshenoy/optsim/journal"
)

// WriteConsole prints the round-trip trade log and the run summary.
func WriteConsole(w io.Writer, res backtest.Result, trades []journal.TradeRecord) {
	fmt.Fprintln(w, "Trade log:")
	if len(trades) == 0 {
		fmt.Fprintln(w, "  (no completed trades)")
	} else {
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  INSTRUMENT\tSIDE\tQTY\tENTRY\tEXIT\tENTRY PX\tEXIT PX\tPNL")
		for _, tr := range trades {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
				tr.Instrument, tr.Side, tr.Quantity,
				tr.EntryTime.Format("15:04"), tr.ExitTime.Format("15:04"),
				tr.EntryPrice, tr.ExitPrice, tr.RealizedPL)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Fills:             %d\n", res.Fills)
	fmt.Fprintf(w, "Round trips:       %d (%d wins, %d losses)\n", res.Trades, res.Wins, res.Losses)
	fmt.Fprintf(w, "Realized PnL:      %.2f\n", res.Realized)
	if res.Unrealized != 0 {
		fmt.Fprintf(w, "Unrealized PnL:    %.2f (position left open at final mark)\n", res.Unrealized)
	}
	fmt.Fprintf(w, "Final equity:      %.2f (started %.2f)\n", res.Equity, res.InitialCash)
	fmt.Fprintf(w, "Peak margin used:  %.2f\n", res.PeakMargin)
	if res.Halted {
		fmt.Fprintln(w, "NOTE: trading halted intraday, max daily loss breached and positions force-closed")
	}
	if !res.Start.IsZero() {
		fmt.Fprintf(w, "Session:           %s -> %s\n",
			res.Start.Format(time.RFC3339), res.End.Format(time.RFC3339))
	}
}

// WriteFillsCSV persists the chronological fill log as a report file.
func WriteFillsCSV(path string, fills []journal.FillRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "instrument", "side", "quantity", "price", "notional", "cash_delta", "position_after"}); err != nil {
		return err
	}
	for _, r := range fills {
		if err := w.Write([]string{
			r.Time.Format(time.RFC3339),
			r.Instrument,
			r.Side,
			strconv.Itoa(r.Quantity),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatFloat(r.Notional, 'f', 2, 64),
			strconv.FormatFloat(r.CashDelta, 'f', 2, 64),
			strconv.Itoa(r.PositionAfter),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
