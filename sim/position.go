package sim

import (
	"time"

	"github.com/darshanshenoy/optsim/market"
)

// Position is the aggregate holding in one instrument. Quantity is
// signed: positive long, negative short. Same-direction fills merge into
// the weighted-average entry price; opposite-direction fills realize PnL
// on the closed quantity and leave the average untouched. The invariant
// is that Quantity equals the signed sum of all fills for the token.
type Position struct {
	Token     market.Token
	Quantity  int // signed units
	AvgPrice  float64
	Realized  float64 // PnL realized by partial closes of this position
	Peak      int     // largest magnitude held, for round-trip reporting
	EntryTime time.Time
}

// Side reports LONG or SHORT for journaling.
func (p *Position) Side() string {
	if p.Quantity >= 0 {
		return "LONG"
	}
	return "SHORT"
}

// Unrealized is the mark-to-market PnL at the given price. The signed
// quantity makes one formula cover both directions.
func (p *Position) Unrealized(last float64) float64 {
	return (last - p.AvgPrice) * float64(p.Quantity)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sgn(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
