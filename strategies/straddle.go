package strategies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yanun0323/logs"

	"github.com/darshanshenoy/optsim/indicators"
	"github.com/darshanshenoy/optsim/market"
	"github.com/darshanshenoy/optsim/sim"
)

// Straddle sells one at-the-money call and put on the index at 09:20,
// using the nearest expiry. The combined legs carry a premium stop of
// -25% and a target of +50%; whatever is still open gets squared off at
// 15:10 before the close.
type Straddle struct {
	Data       *market.Data
	Symbol     string       // underlying symbol, e.g. NIFTY
	Underlying market.Token // resolved index/futures token
	Lots       int
	StrikeStep int

	// Fractions of collected premium. Stop is negative.
	StopPct   float64
	TargetPct float64

	// Minutes since midnight.
	EntryAt int
	ExitAt  int

	callTok market.Token
	putTok  market.Token
	stop    float64
	target  float64
	open    bool
}

func NewStraddle(data *market.Data, symbol string, underlying market.Token, lots int) *Straddle {
	return &Straddle{
		Data:       data,
		Symbol:     symbol,
		Underlying: underlying,
		Lots:       lots,
		StrikeStep: 50,
		StopPct:    0.25,
		TargetPct:  0.50,
		EntryAt:    hm(9, 20),
		ExitAt:     hm(15, 10),
	}
}

func (s *Straddle) Name() string { return "straddle" }

func (s *Straddle) OnStart(ctx context.Context, b sim.Broker, ts time.Time) error {
	return nil
}

func (s *Straddle) OnBar(ctx context.Context, b sim.Broker, ts time.Time) error {
	now := minuteOfDay(ts)

	if now == s.EntryAt && !s.open {
		return s.enter(b, ts)
	}

	if s.open {
		if err := s.manage(b, ts); err != nil {
			return err
		}
	}

	if now >= s.ExitAt && s.open {
		logs.Infof("straddle: %s square off before market close", ts.Format("15:04"))
		if err := b.SquareOffAll(); err != nil {
			return err
		}
		s.open = false
	}
	return nil
}

func (s *Straddle) OnFinish(ctx context.Context, b sim.Broker, ts time.Time) error {
	if !s.open {
		return nil
	}
	s.open = false
	return b.SquareOffAll()
}

func (s *Straddle) enter(b sim.Broker, ts time.Time) error {
	underlying, err := b.MarketPrice(s.Underlying)
	if err != nil {
		return fmt.Errorf("straddle entry: %w", err)
	}
	strike := indicators.NearestStrike(underlying, s.StrikeStep)

	call, okCall := s.Data.Contracts.FindOption(s.Symbol, strike, market.Call, ts)
	put, okPut := s.Data.Contracts.FindOption(s.Symbol, strike, market.Put, ts)
	if !okCall || !okPut {
		logs.Infof("straddle: no options found for strike %d, skipping entry", strike)
		return nil
	}

	callFill, err := b.PlaceOrder(call.Token, sim.Sell, s.Lots)
	if err != nil {
		if errors.Is(err, sim.ErrTradingHalted) {
			return nil
		}
		return fmt.Errorf("sell call %s: %w", call.Description, err)
	}
	putFill, err := b.PlaceOrder(put.Token, sim.Sell, s.Lots)
	if err != nil {
		if errors.Is(err, sim.ErrTradingHalted) {
			return nil
		}
		return fmt.Errorf("sell put %s: %w", put.Description, err)
	}

	s.callTok = call.Token
	s.putTok = put.Token
	premium := callFill.Notional + putFill.Notional
	s.stop = -s.StopPct * premium
	s.target = s.TargetPct * premium
	s.open = true

	logs.Infof("straddle: sold strike %d for premium %.2f (stop %.2f, target %.2f)",
		strike, premium, s.stop, s.target)
	return nil
}

func (s *Straddle) manage(b sim.Broker, ts time.Time) error {
	callPos, okCall := b.OpenPosition(s.callTok)
	putPos, okPut := b.OpenPosition(s.putTok)
	if !okCall && !okPut {
		// Both legs already closed out from under us (risk liquidation).
		s.open = false
		return nil
	}

	total := 0.0
	for _, leg := range []struct {
		pos sim.Position
		ok  bool
		tok market.Token
	}{
		{callPos, okCall, s.callTok},
		{putPos, okPut, s.putTok},
	} {
		if !leg.ok {
			continue
		}
		price, err := b.MarketPrice(leg.tok)
		if err != nil {
			return err
		}
		total += leg.pos.Unrealized(price) + leg.pos.Realized
	}

	if total <= s.stop || total >= s.target {
		logs.Infof("straddle: %s closing with pnl %.2f", ts.Format("15:04"), total)
		if err := b.SquareOffAll(); err != nil {
			return err
		}
		s.open = false
	}
	return nil
}
