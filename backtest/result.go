package backtest

import (
	"time"

	"github.com/darshanshenoy/optsim/sim"
)

// Result summarizes a finished run.
type Result struct {
	Start time.Time
	End   time.Time

	InitialCash float64
	FinalCash   float64
	Equity      float64
	Realized    float64
	Unrealized  float64
	PeakMargin  float64

	Fills  int
	Trades int // completed round trips
	Wins   int
	Losses int

	Halted bool // risk monitor breached the daily loss ceiling
}

func resultFrom(e *sim.Engine, start, end time.Time) Result {
	res := Result{
		Start:       start,
		End:         end,
		InitialCash: e.InitialCash(),
		FinalCash:   e.Cash(),
		Equity:      e.Equity(),
		Realized:    e.Realized(),
		Unrealized:  e.Unrealized(),
		PeakMargin:  e.PeakMargin(),
		Fills:       len(e.Fills()),
		Halted:      e.Halted(),
	}
	for _, tr := range e.Trades() {
		res.Trades++
		switch {
		case tr.RealizedPL > 0:
			res.Wins++
		case tr.RealizedPL < 0:
			res.Losses++
		}
	}
	return res
}
