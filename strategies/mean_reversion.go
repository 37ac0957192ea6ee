package strategies

import (
	"context"
	"errors"
	"time"

	"github.com/yanun0323/logs"

	"github.com/darshanshenoy/optsim/indicators"
	"github.com/darshanshenoy/optsim/market"
	"github.com/darshanshenoy/optsim/sim"
)

// MeanReversion fades moves to the Bollinger bands on a single
// instrument: long when price tags the lower band with RSI oversold but
// still above the EMA, short mirrored on the upper band. Exits when
// price crosses back over the EMA or RSI mean-reverts to 50, with a hard
// square-off at 15:15. All indicator series are precomputed once at
// start of day.
type MeanReversion struct {
	Series *market.Series
	Lots   int

	EMAPeriod int
	RSIPeriod int
	BBWindow  int
	BBDev     float64
	ExitAt    int // minutes since midnight

	ema   []float64
	upper []float64
	lower []float64
	rsi   []float64

	idx   int // cursor into Series.Bars for the current timestamp
	state int // 0 flat, +1 long, -1 short
}

func NewMeanReversion(series *market.Series, lots int) *MeanReversion {
	return &MeanReversion{
		Series:    series,
		Lots:      lots,
		EMAPeriod: 20,
		RSIPeriod: 14,
		BBWindow:  20,
		BBDev:     2.0,
		ExitAt:    hm(15, 15),
		idx:       -1,
	}
}

func (s *MeanReversion) Name() string { return "mean-reversion" }

func (s *MeanReversion) OnStart(ctx context.Context, b sim.Broker, ts time.Time) error {
	close := s.Series.Closes()
	s.ema = indicators.EMA(close, s.EMAPeriod)
	_, s.upper, s.lower = indicators.Bollinger(close, s.BBWindow, s.BBDev)
	s.rsi = indicators.RSI(close, s.RSIPeriod)
	return nil
}

func (s *MeanReversion) OnBar(ctx context.Context, b sim.Broker, ts time.Time) error {
	for s.idx+1 < s.Series.Len() && !s.Series.Bars[s.idx+1].Time.After(ts) {
		s.idx++
	}
	if s.idx < 0 {
		return nil
	}

	tok := s.Series.Token
	price, err := b.MarketPrice(tok)
	if err != nil {
		return err
	}

	// The engine may have liquidated us on a risk breach; resync.
	if s.state != 0 && b.Position(tok) == 0 {
		s.state = 0
	}

	if minuteOfDay(ts) >= s.ExitAt {
		if s.state != 0 {
			logs.Infof("mean-reversion: %s square off at market close", ts.Format("15:04"))
			if err := b.SquareOffAll(); err != nil {
				return err
			}
			s.state = 0
		}
		return nil
	}

	if s.idx < s.warmup() {
		return nil
	}
	ema, upper, lower, rsi := s.ema[s.idx], s.upper[s.idx], s.lower[s.idx], s.rsi[s.idx]
	if ema == 0 || upper == 0 || lower == 0 || rsi == 0 {
		return nil
	}

	if s.state == 0 {
		switch {
		case price <= lower && rsi < 30 && price > ema:
			if err := s.order(b, sim.Buy, +1, price, rsi, ts); err != nil {
				return err
			}
		case price >= upper && rsi > 70 && price < ema:
			if err := s.order(b, sim.Sell, -1, price, rsi, ts); err != nil {
				return err
			}
		}
		return nil
	}

	exitLong := s.state > 0 && (price < ema || rsi >= 50)
	exitShort := s.state < 0 && (price > ema || rsi <= 50)
	if exitLong || exitShort {
		logs.Infof("mean-reversion: %s exit at %.2f, RSI %.2f", ts.Format("15:04"), price, rsi)
		if err := b.SquareOffAll(); err != nil {
			return err
		}
		s.state = 0
	}
	return nil
}

func (s *MeanReversion) OnFinish(ctx context.Context, b sim.Broker, ts time.Time) error {
	s.state = 0
	return b.SquareOffAll()
}

func (s *MeanReversion) order(b sim.Broker, side sim.Side, state int, price, rsi float64, ts time.Time) error {
	if _, err := b.PlaceOrder(s.Series.Token, side, s.Lots); err != nil {
		if errors.Is(err, sim.ErrTradingHalted) {
			return nil
		}
		return err
	}
	s.state = state
	logs.Infof("mean-reversion: %s enter %s at %.2f, RSI %.2f", ts.Format("15:04"), side, price, rsi)
	return nil
}

func (s *MeanReversion) warmup() int {
	w := s.BBWindow
	if s.EMAPeriod > w {
		w = s.EMAPeriod
	}
	if s.RSIPeriod+1 > w {
		w = s.RSIPeriod + 1
	}
	return w
}
