package sim

import (
	"time"

	"github.com/darshanshenoy/optsim/journal"
	"github.com/darshanshenoy/optsim/market"
)

// Side is the order direction. The numeric value is the sign applied to
// quantities, which keeps position arithmetic uniform.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the offsetting direction.
func (s Side) Opposite() Side { return -s }

// Fill is a completed market order. Every order in this engine fills
// synchronously at the current bar's price, so there is no separate
// pending-order state. Fills are immutable once created.
type Fill struct {
	ID            string
	Time          time.Time
	Token         market.Token
	Side          Side
	Quantity      int // units, always positive
	Price         float64
	Notional      float64
	CashDelta     float64
	PositionAfter int // signed units after this fill
}

func (f Fill) record(instrument string) journal.FillRecord {
	return journal.FillRecord{
		FillID:        f.ID,
		Time:          f.Time,
		Token:         int64(f.Token),
		Instrument:    instrument,
		Side:          f.Side.String(),
		Quantity:      f.Quantity,
		Price:         f.Price,
		Notional:      f.Notional,
		CashDelta:     f.CashDelta,
		PositionAfter: f.PositionAfter,
	}
}
