package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanshenoy/optsim/backtest"
	"github.com/darshanshenoy/optsim/journal"
)

func sampleResult() backtest.Result {
	return backtest.Result{
		Start:       time.Date(2025, 10, 7, 9, 15, 0, 0, time.UTC),
		End:         time.Date(2025, 10, 7, 15, 30, 0, 0, time.UTC),
		InitialCash: 1_000_000,
		FinalCash:   1_002_012.5,
		Equity:      1_002_012.5,
		Realized:    2012.5,
		PeakMargin:  903.75,
		Fills:       2,
		Trades:      1,
		Wins:        1,
	}
}

func sampleTrades() []journal.TradeRecord {
	return []journal.TradeRecord{{
		TradeID:    "t1",
		Instrument: "NIFTY 25000 CE",
		Side:       "SHORT",
		Quantity:   50,
		EntryTime:  time.Date(2025, 10, 7, 9, 20, 0, 0, time.UTC),
		ExitTime:   time.Date(2025, 10, 7, 14, 45, 0, 0, time.UTC),
		EntryPrice: 120.5,
		ExitPrice:  80.25,
		RealizedPL: 2012.5,
	}}
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	WriteConsole(&buf, sampleResult(), sampleTrades())
	out := buf.String()

	assert.Contains(t, out, "NIFTY 25000 CE")
	assert.Contains(t, out, "SHORT")
	assert.Contains(t, out, "09:20")
	assert.Contains(t, out, "Fills:             2")
	assert.Contains(t, out, "1 wins, 0 losses")
	assert.Contains(t, out, "Realized PnL:      2012.50")
	assert.Contains(t, out, "Final equity:      1002012.50 (started 1000000.00)")
	assert.NotContains(t, out, "Unrealized", "flat books skip the unrealized line")
	assert.NotContains(t, out, "halted")
}

func TestWriteConsoleHaltedRun(t *testing.T) {
	res := sampleResult()
	res.Halted = true
	res.Unrealized = -150

	var buf bytes.Buffer
	WriteConsole(&buf, res, nil)
	out := buf.String()

	assert.Contains(t, out, "(no completed trades)")
	assert.Contains(t, out, "trading halted intraday")
	assert.Contains(t, out, "Unrealized PnL:    -150.00")
}

func TestWriteFillsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fills.csv")
	fills := []journal.FillRecord{{
		Time:          time.Date(2025, 10, 7, 9, 20, 0, 0, time.UTC),
		Instrument:    "NIFTY 25000 CE",
		Side:          "SELL",
		Quantity:      50,
		Price:         120.5,
		Notional:      6025,
		CashDelta:     6025,
		PositionAfter: -50,
	}}
	require.NoError(t, WriteFillsCSV(path, fills))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "instrument", "side", "quantity", "price", "notional", "cash_delta", "position_after"}, rows[0])
	assert.Equal(t, []string{"2025-10-07T09:20:00Z", "NIFTY 25000 CE", "SELL", "50", "120.50", "6025.00", "6025.00", "-50"}, rows[1])
}

func TestWriteEquityChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equity.html")
	snaps := []journal.EquitySnapshot{
		{Time: time.Date(2025, 10, 7, 9, 15, 0, 0, time.UTC), Equity: 1_000_000, MarginUsed: 0},
		{Time: time.Date(2025, 10, 7, 9, 16, 0, 0, time.UTC), Equity: 1_000_250, MarginUsed: 750},
	}
	require.NoError(t, WriteEquityChart(path, snaps))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(body)
	assert.True(t, strings.Contains(html, "Equity curve"))
	assert.True(t, strings.Contains(html, "margin used"))
}

func TestWriteEquityChartNoData(t *testing.T) {
	err := WriteEquityChart(filepath.Join(t.TempDir(), "equity.html"), nil)
	assert.ErrorContains(t, err, "no snapshots")
}
