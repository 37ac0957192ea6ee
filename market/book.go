package market

import "time"

// Book tracks the last traded price of every instrument as of the current
// simulated timestamp. The backtest runner applies each bar to the book
// before the risk monitor or strategy see that timestamp, so a lookup
// always reflects everything known "so far" and nothing later.
type Book struct {
	last map[Token]float64
	now  time.Time
}

func NewBook() *Book {
	return &Book{last: make(map[Token]float64)}
}

// Apply records a bar's close as the instrument's last traded price and
// advances the book clock.
func (b *Book) Apply(bar Bar) {
	b.last[bar.Token] = bar.Close
	if bar.Time.After(b.now) {
		b.now = bar.Time
	}
}

// Last returns the last traded price for tok, or ok=false when the
// instrument has not printed yet.
func (b *Book) Last(tok Token) (float64, bool) {
	p, ok := b.last[tok]
	return p, ok
}

// Now is the timestamp of the most recent bar applied.
func (b *Book) Now() time.Time { return b.now }
