package sim

import (
	"sort"

	"github.com/darshanshenoy/optsim/journal"
	"github.com/darshanshenoy/optsim/market"
)

// Ledger is the single mutable aggregate of account state. It is owned
// exclusively by the Engine; everything else sees read-only copies
// through the Engine's accessors.
type Ledger struct {
	initialCash float64
	cash        float64
	positions   map[market.Token]*Position
	realized    float64
	marginUsed  float64
	peakMargin  float64
	halted      bool

	fills  []Fill
	trades []journal.TradeRecord
}

func newLedger(initialCash float64) *Ledger {
	return &Ledger{
		initialCash: initialCash,
		cash:        initialCash,
		positions:   make(map[market.Token]*Position),
	}
}

// openTokens returns tokens with a live position in deterministic order.
func (l *Ledger) openTokens() []market.Token {
	toks := make([]market.Token, 0, len(l.positions))
	for tok := range l.positions {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i] < toks[j] })
	return toks
}

func (l *Ledger) position(tok market.Token) int {
	if p, ok := l.positions[tok]; ok {
		return p.Quantity
	}
	return 0
}
