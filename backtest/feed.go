package backtest

import (
	"sort"
	"time"

	"github.com/darshanshenoy/optsim/market"
)

// BarFeed yields, for each timestamp in chronological order, every bar
// that printed at that timestamp. Implementations are deterministic and
// return ok=false at the end of the data.
type BarFeed interface {
	Next() (ts time.Time, bars []market.Bar, ok bool, err error)
	Close() error
}

// SeriesFeed merges per-token series into one chronological sequence of
// timestamp groups. Ties within a timestamp are ordered by token so runs
// are reproducible.
type SeriesFeed struct {
	bars []market.Bar
	pos  int
}

func NewSeriesFeed(series map[market.Token]*market.Series) *SeriesFeed {
	var all []market.Bar
	for _, s := range series {
		all = append(all, s.Bars...)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Time.Equal(all[j].Time) {
			return all[i].Time.Before(all[j].Time)
		}
		return all[i].Token < all[j].Token
	})
	return &SeriesFeed{bars: all}
}

func (f *SeriesFeed) Next() (time.Time, []market.Bar, bool, error) {
	if f.pos >= len(f.bars) {
		return time.Time{}, nil, false, nil
	}
	ts := f.bars[f.pos].Time
	start := f.pos
	for f.pos < len(f.bars) && f.bars[f.pos].Time.Equal(ts) {
		f.pos++
	}
	return ts, f.bars[start:f.pos], true, nil
}

func (f *SeriesFeed) Close() error { return nil }
