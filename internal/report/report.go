// Package report renders the end-of-run summary text from the
// aggregate time series. It is the reporting collaborator: the core
// never knows how its numbers are presented.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/gridsweep/internal/engine"
)

// Render builds the human-readable run report.
func Render(sum engine.Summary, series []engine.TickStats, events []engine.Event) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Run Summary\n")
	fmt.Fprintf(&b, "Outcome: %s after %s ticks\n", sum.Outcome, humanize.Comma(int64(sum.Ticks)))
	fmt.Fprintf(&b, "Cleaned: %d of %d dirty cells (%.1f%% of grid clean)\n",
		sum.Cleaned, sum.InitialDirty, sum.CleanPercent)
	fmt.Fprintf(&b, "Explored: %.1f%% | Stranded agents: %d\n\n", sum.ExploredPercent, sum.Stranded)

	fmt.Fprintf(&b, "## Actions\n")
	fmt.Fprintf(&b, "Movements: %s | Charge events: %s\n",
		humanize.Comma(int64(sum.Movements)), humanize.Comma(int64(sum.Charges)))
	fmt.Fprintf(&b, "Cleaning efficiency: %.1f cleans per 100 moves\n", sum.CleaningEfficiency)
	fmt.Fprintf(&b, "Battery efficiency: %.1f cleans per 100 battery spent\n\n", sum.BatteryEfficiency)

	if len(series) > 0 {
		fmt.Fprintf(&b, "## Coverage Milestones\n")
		for _, threshold := range []float64{25, 50, 75, 90, 100} {
			if tick, ok := firstTickAbove(series, threshold); ok {
				fmt.Fprintf(&b, "%.0f%% clean at tick %s\n", threshold, humanize.Comma(int64(tick)))
			}
		}
		b.WriteString("\n")

		first := series[0]
		last := series[len(series)-1]
		fmt.Fprintf(&b, "## Trends\n")
		fmt.Fprintf(&b, "Clean: %.1f%% → %.1f%%\n", first.CleanPercent, last.CleanPercent)
		fmt.Fprintf(&b, "Explored: %.1f%% → %.1f%%\n", first.ExploredPercent, last.ExploredPercent)
		fmt.Fprintf(&b, "Avg battery: %.1f → %.1f\n\n", first.AvgBattery, last.AvgBattery)
	}

	if len(events) > 0 {
		fmt.Fprintf(&b, "## Events\n")
		start := 0
		if len(events) > 10 {
			start = len(events) - 10
			fmt.Fprintf(&b, "(showing last 10 of %d)\n", len(events))
		}
		for _, e := range events[start:] {
			fmt.Fprintf(&b, "tick %d [%s] %s\n", e.Tick, e.Category, e.Description)
		}
	}

	return b.String()
}

func firstTickAbove(series []engine.TickStats, pct float64) (uint64, bool) {
	for _, s := range series {
		if s.CleanPercent >= pct {
			return s.Tick, true
		}
	}
	return 0, false
}
