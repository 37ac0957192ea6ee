package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/darshanshenoy/optsim/journal"
)

// WriteEquityChart renders the per-bar equity curve and margin usage to
// a standalone HTML file.
func WriteEquityChart(path string, snaps []journal.EquitySnapshot) error {
	if len(snaps) == 0 {
		return fmt.Errorf("equity chart: no snapshots recorded")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Equity curve",
			Subtitle: "per-minute account equity and margin usage",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	times := make([]string, len(snaps))
	equity := make([]opts.LineData, len(snaps))
	margin := make([]opts.LineData, len(snaps))
	for i, s := range snaps {
		times[i] = s.Time.Format("15:04")
		equity[i] = opts.LineData{Value: s.Equity}
		margin[i] = opts.LineData{Value: s.MarginUsed}
	}

	line.SetXAxis(times).
		AddSeries("equity", equity).
		AddSeries("margin used", margin)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}
