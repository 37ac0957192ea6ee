package strategies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanshenoy/optsim/market"
	"github.com/darshanshenoy/optsim/sim"
)

func flatSeries(n int) *market.Series {
	s := &market.Series{Token: underTok}
	start := at(9, 15)
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, market.Bar{
			Token: underTok, Time: start.Add(time.Duration(i) * time.Minute),
			Open: 20000, High: 20000, Low: 20000, Close: 20000,
		})
	}
	return s
}

func TestMeanReversionStaysFlatOnQuietTape(t *testing.T) {
	b := newFakeBroker()
	b.prices[underTok] = 20000

	series := flatSeries(40)
	s := NewMeanReversion(series, 1)
	require.NoError(t, s.OnStart(context.Background(), b, series.First().Time))

	for _, bar := range series.Bars {
		require.NoError(t, s.OnBar(context.Background(), b, bar.Time))
	}

	assert.Empty(t, b.orders, "a flat tape never signals")
	assert.Equal(t, 0, b.squareOffs)
}

func TestMeanReversionSkipsWarmup(t *testing.T) {
	b := newFakeBroker()
	b.prices[underTok] = 20000

	series := flatSeries(10) // shorter than every indicator period
	s := NewMeanReversion(series, 1)
	require.NoError(t, s.OnStart(context.Background(), b, series.First().Time))

	for _, bar := range series.Bars {
		require.NoError(t, s.OnBar(context.Background(), b, bar.Time))
	}
	assert.Empty(t, b.orders)
}

func TestMeanReversionSquaresOffAtClose(t *testing.T) {
	b := newFakeBroker()
	b.prices[underTok] = 20000
	b.positions[underTok] = &sim.Position{Token: underTok, Quantity: 50, AvgPrice: 19950}

	s := NewMeanReversion(flatSeries(40), 1)
	require.NoError(t, s.OnStart(context.Background(), b, at(9, 15)))
	s.state = 1

	require.NoError(t, s.OnBar(context.Background(), b, at(15, 15)))
	assert.Equal(t, 1, b.squareOffs)
	assert.Equal(t, 0, s.state)

	// Past the cutoff the strategy never re-enters.
	require.NoError(t, s.OnBar(context.Background(), b, at(15, 16)))
	assert.Equal(t, 1, b.squareOffs)
}

func TestMeanReversionResyncsAfterLiquidation(t *testing.T) {
	b := newFakeBroker()
	b.prices[underTok] = 20000

	s := NewMeanReversion(flatSeries(40), 1)
	require.NoError(t, s.OnStart(context.Background(), b, at(9, 15)))
	s.state = 1 // believes it is long, but the book is flat

	require.NoError(t, s.OnBar(context.Background(), b, at(10, 0)))
	assert.Equal(t, 0, s.state)
	assert.Equal(t, 0, b.squareOffs, "resync does not place orders")
}

func TestMeanReversionOnFinishGoesFlat(t *testing.T) {
	b := newFakeBroker()
	s := NewMeanReversion(flatSeries(5), 1)
	s.state = -1

	require.NoError(t, s.OnFinish(context.Background(), b, at(15, 30)))
	assert.Equal(t, 1, b.squareOffs)
	assert.Equal(t, 0, s.state)
}
