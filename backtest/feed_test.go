package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanshenoy/optsim/market"
)

func TestSeriesFeedGroupsByTimestamp(t *testing.T) {
	open := sessionOpen()
	a, b := market.Token(2), market.Token(7)

	series := map[market.Token]*market.Series{
		a: {Token: a, Bars: []market.Bar{
			{Token: a, Time: open, Close: 10},
			{Token: a, Time: open.Add(time.Minute), Close: 11},
		}},
		b: {Token: b, Bars: []market.Bar{
			{Token: b, Time: open, Close: 20},
			{Token: b, Time: open.Add(2 * time.Minute), Close: 22},
		}},
	}

	feed := NewSeriesFeed(series)

	ts, bars, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, open, ts)
	require.Len(t, bars, 2)
	assert.Equal(t, a, bars[0].Token, "ties break by token")
	assert.Equal(t, b, bars[1].Token)

	ts, bars, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, open.Add(time.Minute), ts)
	require.Len(t, bars, 1)
	assert.Equal(t, a, bars[0].Token)

	ts, bars, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, open.Add(2*time.Minute), ts)
	require.Len(t, bars, 1)
	assert.Equal(t, b, bars[0].Token)

	_, _, ok, err = feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, feed.Close())
}

func TestSeriesFeedEmpty(t *testing.T) {
	feed := NewSeriesFeed(nil)
	_, _, ok, err := feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
