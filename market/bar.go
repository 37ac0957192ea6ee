// Package market holds instrument metadata, minute bars, and the price
// book the simulator reads last-traded prices from.
package market

import "time"

// Token is the exchange instrument identifier. It carries no behavior;
// everything else keys off it.
type Token int64

// Bar is one minute's OHLC snapshot for a single instrument.
type Bar struct {
	Token Token
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Series is the chronological bar history of one instrument for the day.
type Series struct {
	Token Token
	Bars  []Bar
}

// Closes returns the close column. Strategies feed this to indicator
// precomputation once at start of day.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s *Series) Len() int { return len(s.Bars) }

// First returns the earliest bar. Callers must check Len() > 0 first.
func (s *Series) First() Bar { return s.Bars[0] }

// Last returns the latest bar. Callers must check Len() > 0 first.
func (s *Series) Last() Bar { return s.Bars[len(s.Bars)-1] }
