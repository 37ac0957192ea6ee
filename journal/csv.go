package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV writes fills, round trips, and equity snapshots to three CSV files.
// Rows are flushed as they arrive so a crashed run still leaves a usable
// partial log on disk.
type CSV struct {
	fills  *csv.Writer
	trades *csv.Writer
	equity *csv.Writer
	files  []*os.File
}

func NewCSV(fillsPath, tradesPath, equityPath string) (*CSV, error) {
	j := &CSV{}
	for _, p := range []struct {
		path   string
		header []string
		dst    **csv.Writer
	}{
		{fillsPath, []string{"fill_id", "time", "token", "instrument", "side", "quantity", "price", "notional", "cash_delta", "position_after"}, &j.fills},
		{tradesPath, []string{"trade_id", "token", "instrument", "side", "quantity", "entry_time", "exit_time", "entry_price", "exit_price", "realized_pl"}, &j.trades},
		{equityPath, []string{"time", "cash", "equity", "realized", "margin_used", "peak_margin"}, &j.equity},
	} {
		f, err := os.Create(p.path)
		if err != nil {
			j.Close()
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(p.header); err != nil {
			j.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			j.Close()
			return nil, err
		}
		*p.dst = w
	}
	return j, nil
}

func (j *CSV) RecordFill(r FillRecord) error {
	err := j.fills.Write([]string{
		r.FillID,
		r.Time.Format(time.RFC3339),
		strconv.FormatInt(r.Token, 10),
		r.Instrument,
		r.Side,
		strconv.Itoa(r.Quantity),
		f(r.Price),
		f(r.Notional),
		f(r.CashDelta),
		strconv.Itoa(r.PositionAfter),
	})
	if err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSV) RecordTrade(r TradeRecord) error {
	err := j.trades.Write([]string{
		r.TradeID,
		strconv.FormatInt(r.Token, 10),
		r.Instrument,
		r.Side,
		strconv.Itoa(r.Quantity),
		r.EntryTime.Format(time.RFC3339),
		r.ExitTime.Format(time.RFC3339),
		f(r.EntryPrice),
		f(r.ExitPrice),
		f(r.RealizedPL),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordEquity(r EquitySnapshot) error {
	err := j.equity.Write([]string{
		r.Time.Format(time.RFC3339),
		f(r.Cash),
		f(r.Equity),
		f(r.Realized),
		f(r.MarginUsed),
		f(r.PeakMargin),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	var first error
	for _, w := range []*csv.Writer{j.fills, j.trades, j.equity} {
		if w == nil {
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil && first == nil {
			first = err
		}
	}
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
