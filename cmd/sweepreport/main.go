// Command sweepreport prints the aggregate report for a finished run
// from the run store. With no -run flag it reports the latest run.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/talgya/gridsweep/internal/engine"
	"github.com/talgya/gridsweep/internal/persistence"
	"github.com/talgya/gridsweep/internal/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	var (
		dbPath = flag.String("db", "data/gridsweep.db", "sqlite run store")
		runID  = flag.String("run", "", "run ID (latest when empty)")
	)
	flag.Parse()

	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var run persistence.Run
	if *runID != "" {
		run, err = db.GetRun(*runID)
	} else {
		run, err = db.LatestRun()
	}
	if err != nil {
		slog.Error("failed to load run", "error", err)
		os.Exit(1)
	}

	series, err := db.LoadSeries(run.ID)
	if err != nil {
		slog.Error("failed to load series", "error", err)
		os.Exit(1)
	}
	events, err := db.LoadEvents(run.ID)
	if err != nil {
		slog.Error("failed to load events", "error", err)
		os.Exit(1)
	}

	sum := engine.Summary{
		Outcome:      run.Outcome,
		Ticks:        run.Ticks,
		InitialDirty: run.InitialDirty,
		Cleaned:      run.Cleaned,
	}
	if len(series) > 0 {
		last := series[len(series)-1]
		sum.CleanPercent = last.CleanPercent
		sum.ExploredPercent = last.ExploredPercent
		sum.Movements = last.Movements
		sum.Charges = last.Charges
		sum.Stranded = last.Stranded
		if last.Movements > 0 {
			sum.CleaningEfficiency = float64(last.Cleans) / float64(last.Movements) * 100
		}
	}

	fmt.Printf("run %s (%dx%d, %d agents, seed %d, started %s)\n\n",
		run.ID, run.Width, run.Height, run.Agents, run.Seed, run.StartedAt)
	fmt.Print(report.Render(sum, series, events))
}
