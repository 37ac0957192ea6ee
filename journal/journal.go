// Package journal persists what the simulator did: every fill, every
// completed round trip, and a per-bar equity snapshot.
package journal

import "time"

// FillRecord is one executed order. The fill log is append-only and its
// insertion order is chronological.
type FillRecord struct {
	FillID        string
	Time          time.Time
	Token         int64
	Instrument    string
	Side          string // BUY or SELL
	Quantity      int    // units
	Price         float64
	Notional      float64
	CashDelta     float64
	PositionAfter int // signed units after this fill
}

// TradeRecord is a completed round trip: a position that went flat.
type TradeRecord struct {
	TradeID    string
	Token      int64
	Instrument string
	Side       string // LONG or SHORT
	Quantity   int    // units closed
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64 // weighted-average entry
	ExitPrice  float64
	RealizedPL float64
}

// EquitySnapshot captures account state once per bar.
type EquitySnapshot struct {
	Time       time.Time
	Cash       float64
	Equity     float64
	Realized   float64
	MarginUsed float64
	PeakMargin float64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Useful when a run does not need persistence.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error       { return nil }
func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }

// Memory retains all records in insertion order. The report package reads
// from it after a run; tests use it to observe engine behavior.
type Memory struct {
	Fills  []FillRecord
	Trades []TradeRecord
	Equity []EquitySnapshot
}

func (m *Memory) RecordFill(r FillRecord) error {
	m.Fills = append(m.Fills, r)
	return nil
}

func (m *Memory) RecordTrade(r TradeRecord) error {
	m.Trades = append(m.Trades, r)
	return nil
}

func (m *Memory) RecordEquity(r EquitySnapshot) error {
	m.Equity = append(m.Equity, r)
	return nil
}

func (m *Memory) Close() error { return nil }

// Multi fans every record out to all children. First error wins; later
// children still receive the record.
type Multi []Journal

func (m Multi) RecordFill(r FillRecord) error {
	var first error
	for _, j := range m {
		if err := j.RecordFill(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) RecordTrade(r TradeRecord) error {
	var first error
	for _, j := range m {
		if err := j.RecordTrade(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) RecordEquity(r EquitySnapshot) error {
	var first error
	for _, j := range m {
		if err := j.RecordEquity(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, j := range m {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
