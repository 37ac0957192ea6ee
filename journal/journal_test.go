package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFill() FillRecord {
	return FillRecord{
		FillID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Time:          time.Date(2025, 10, 7, 9, 20, 0, 0, time.UTC),
		Token:         42,
		Instrument:    "NIFTY 09OCT 25000 CE",
		Side:          "SELL",
		Quantity:      50,
		Price:         120.5,
		Notional:      6025,
		CashDelta:     6025,
		PositionAfter: -50,
	}
}

func sampleTrade() TradeRecord {
	return TradeRecord{
		TradeID:    "01ARZ3NDEKTSV4RRFFQ69G5FAW",
		Token:      42,
		Instrument: "NIFTY 09OCT 25000 CE",
		Side:       "SHORT",
		Quantity:   50,
		EntryTime:  time.Date(2025, 10, 7, 9, 20, 0, 0, time.UTC),
		ExitTime:   time.Date(2025, 10, 7, 14, 45, 0, 0, time.UTC),
		EntryPrice: 120.5,
		ExitPrice:  80.25,
		RealizedPL: 2012.5,
	}
}

func sampleEquity() EquitySnapshot {
	return EquitySnapshot{
		Time:       time.Date(2025, 10, 7, 9, 20, 0, 0, time.UTC),
		Cash:       1_006_025,
		Equity:     1_000_000,
		Realized:   0,
		MarginUsed: 903.75,
		PeakMargin: 903.75,
	}
}

func TestMemoryRetainsInsertionOrder(t *testing.T) {
	m := &Memory{}

	require.NoError(t, m.RecordFill(sampleFill()))
	f2 := sampleFill()
	f2.FillID = "second"
	require.NoError(t, m.RecordFill(f2))
	require.NoError(t, m.RecordTrade(sampleTrade()))
	require.NoError(t, m.RecordEquity(sampleEquity()))

	require.Len(t, m.Fills, 2)
	assert.Equal(t, "second", m.Fills[1].FillID)
	assert.Len(t, m.Trades, 1)
	assert.Len(t, m.Equity, 1)
	assert.NoError(t, m.Close())
}

// failing errors on everything, for exercising Multi's error handling.
type failing struct{ err error }

func (f failing) RecordFill(FillRecord) error       { return f.err }
func (f failing) RecordTrade(TradeRecord) error     { return f.err }
func (f failing) RecordEquity(EquitySnapshot) error { return f.err }
func (f failing) Close() error                      { return f.err }

func TestMultiFansOutAndReportsFirstError(t *testing.T) {
	a, b := &Memory{}, &Memory{}
	boom := errors.New("boom")
	m := Multi{a, failing{boom}, b}

	err := m.RecordFill(sampleFill())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.Fills, 1)
	assert.Len(t, b.Fills, 1, "later children still receive the record")

	assert.ErrorIs(t, m.RecordTrade(sampleTrade()), boom)
	assert.ErrorIs(t, m.RecordEquity(sampleEquity()), boom)
	assert.ErrorIs(t, m.Close(), boom)
}

func TestNopDiscardsEverything(t *testing.T) {
	var n Nop
	assert.NoError(t, n.RecordFill(sampleFill()))
	assert.NoError(t, n.RecordTrade(sampleTrade()))
	assert.NoError(t, n.RecordEquity(sampleEquity()))
	assert.NoError(t, n.Close())
}
