// Package strategies defines the callback contract the simulation loop
// drives, plus the bundled reference strategies.
package strategies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/darshanshenoy/optsim/market"
	"github.com/darshanshenoy/optsim/sim"
)

// Strategy is the contract every trading strategy implements. The runner
// calls OnStart once before the first bar, OnBar once per timestamp (the
// risk monitor has already run and all of the timestamp's prices are
// visible), and OnFinish after the last bar. The engine never closes
// positions at end of day on its own; that policy belongs here.
type Strategy interface {
	Name() string
	OnStart(ctx context.Context, b sim.Broker, ts time.Time) error
	OnBar(ctx context.Context, b sim.Broker, ts time.Time) error
	OnFinish(ctx context.Context, b sim.Broker, ts time.Time) error
}

// Params carries everything a strategy factory may need.
type Params struct {
	Data       *market.Data
	Underlying market.Contract // resolved tradable proxy for the index
	Lots       int
}

// ByName builds one of the bundled strategies.
func ByName(name string, p Params) (Strategy, error) {
	lots := p.Lots
	if lots <= 0 {
		lots = 1
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "straddle":
		return NewStraddle(p.Data, p.Underlying.Symbol, p.Underlying.Token, lots), nil

	case "mean-reversion", "mean_reversion", "meanreversion":
		series, ok := p.Data.SeriesFor(p.Underlying.Token)
		if !ok {
			return nil, fmt.Errorf("mean-reversion: no price series for %s", p.Underlying.Description)
		}
		return NewMeanReversion(series, lots), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, straddle, mean-reversion)", name)
	}
}

// minuteOfDay flattens a timestamp to minutes since midnight for the
// fixed-time entry/exit rules.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func hm(hour, minute int) int { return hour*60 + minute }
