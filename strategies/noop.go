package strategies

import (
	"context"
	"time"

	"github.com/darshanshenoy/optsim/sim"
)

// Noop trades nothing. It exists to exercise the wiring end to end.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnStart(context.Context, sim.Broker, time.Time) error  { return nil }
func (Noop) OnBar(context.Context, sim.Broker, time.Time) error    { return nil }
func (Noop) OnFinish(context.Context, sim.Broker, time.Time) error { return nil }
