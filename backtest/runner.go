// Package backtest drives the simulation clock: it folds an ordered bar
// feed through the engine, the risk monitor, and the strategy.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/darshanshenoy/optsim/sim"
	"github.com/darshanshenoy/optsim/strategies"
)

// State is the runner's lifecycle phase.
type State int

const (
	NotStarted State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Running:
		return "RUNNING"
	case Finished:
		return "FINISHED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Runner executes one simulated trading day. Per timestamp it applies
// every bar to the price book, revalues margin and snapshots equity,
// runs the risk monitor, and then, if trading has not halted, hands the
// timestamp to the strategy. A halt stops strategy callbacks but bars
// keep flowing so the final marks stay current.
type Runner struct {
	Engine   *sim.Engine
	Risk     *sim.RiskMonitor
	Feed     BarFeed
	Strategy strategies.Strategy

	state State
}

func (r *Runner) State() State { return r.state }

// Run processes every bar in the feed and returns the summary. The
// strategy's OnFinish is expected to close any remaining positions; the
// engine only forces liquidation on a risk breach.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if r.state != NotStarted {
		return Result{}, fmt.Errorf("backtest: runner already %s", r.state)
	}
	defer r.Feed.Close()

	var start, end time.Time

	for {
		ts, bars, ok, err := r.Feed.Next()
		if err != nil {
			return resultFrom(r.Engine, start, end), err
		}
		if !ok {
			break
		}

		if start.IsZero() {
			start = ts
		}
		end = ts

		// All of this timestamp's prices become visible before the risk
		// monitor or the strategy run.
		for _, b := range bars {
			r.Engine.ApplyBar(b)
		}
		if err := r.Engine.MarkBar(ts); err != nil {
			return resultFrom(r.Engine, start, end), err
		}

		if r.state == NotStarted {
			r.state = Running
			if err := r.Strategy.OnStart(ctx, r.Engine, ts); err != nil {
				return resultFrom(r.Engine, start, end), fmt.Errorf("strategy start: %w", err)
			}
		}

		halted, err := r.Risk.Check(r.Engine)
		if err != nil {
			return resultFrom(r.Engine, start, end), fmt.Errorf("risk check: %w", err)
		}
		if halted {
			continue
		}

		if err := r.Strategy.OnBar(ctx, r.Engine, ts); err != nil {
			return resultFrom(r.Engine, start, end), fmt.Errorf("strategy bar %s: %w", ts.Format(time.RFC3339), err)
		}
	}

	r.state = Finished
	if !end.IsZero() {
		if err := r.Strategy.OnFinish(ctx, r.Engine, end); err != nil {
			return resultFrom(r.Engine, start, end), fmt.Errorf("strategy finish: %w", err)
		}
		// Final snapshot after whatever OnFinish closed.
		if err := r.Engine.MarkBar(end); err != nil {
			return resultFrom(r.Engine, start, end), err
		}
	}

	return resultFrom(r.Engine, start, end), nil
}
