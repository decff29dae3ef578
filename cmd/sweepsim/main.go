// Command sweepsim runs the roomba grid-cleaning simulation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/gridsweep/internal/api"
	"github.com/talgya/gridsweep/internal/config"
	"github.com/talgya/gridsweep/internal/engine"
	"github.com/talgya/gridsweep/internal/persistence"
	"github.com/talgya/gridsweep/internal/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		cfgPath  = flag.String("config", "", "YAML config file (defaults used when empty)")
		seed     = flag.Int64("seed", -1, "override world seed (>= 0)")
		agents   = flag.Int("agents", 0, "override agent count")
		maxTicks = flag.Uint64("ticks", 0, "override max time steps")
		interval = flag.Int("interval", -1, "override tick interval in ms (0 = flat out)")
		apiPort  = flag.Int("port", -1, "override API port (0 = disabled)")
		dbPath   = flag.String("db", "", "override sqlite path (\"none\" = disabled)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}
	if *agents > 0 {
		cfg.Agents = *agents
	}
	if *maxTicks > 0 {
		cfg.MaxTicks = *maxTicks
	}
	if *interval >= 0 {
		cfg.TickIntervalMs = *interval
	}
	if *apiPort >= 0 {
		cfg.APIPort = *apiPort
	}
	switch *dbPath {
	case "":
	case "none":
		cfg.DBPath = ""
	default:
		cfg.DBPath = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.DBPath != "" {
		os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── World & Simulation ────────────────────────────────────────────
	sim := engine.NewSimulation(cfg)

	runID := ""
	if db != nil {
		runID, err = db.CreateRun(cfg, sim.Grid.InitialDirty())
		if err != nil {
			slog.Error("failed to create run", "error", err)
			os.Exit(1)
		}
	}

	eng := engine.NewEngine()
	eng.Interval = time.Duration(cfg.TickIntervalMs) * time.Millisecond

	// ── HTTP API ──────────────────────────────────────────────────────
	var apiServer *api.Server
	if cfg.APIPort > 0 {
		apiServer = api.NewServer(eng, cfg.APIPort)
		apiServer.Start()
	}

	// Wire tick callbacks; checkpoint the series to the DB periodically.
	savedThrough := 0
	eng.OnTick = func(tick uint64) bool {
		done := sim.TickOnce(tick)
		if apiServer != nil {
			apiServer.Publish(sim.Snapshot())
		}
		return done
	}
	eng.OnCheckpoint = func(tick uint64) {
		if db == nil {
			return
		}
		if err := db.SaveTicks(runID, sim.Series[savedThrough:]); err != nil {
			slog.Error("checkpoint failed", "error", err)
			return
		}
		savedThrough = len(sim.Series)
	}

	// ── Stop signal (observed between ticks only) ─────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping after current tick", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("gridsweep: %d agent(s) on a %dx%d grid, %d dirty cells, seed %d\n",
		cfg.Agents, cfg.Width, cfg.Height, sim.Grid.InitialDirty(), cfg.Seed)
	if cfg.APIPort > 0 {
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	}

	eng.Run()
	sim.Interrupt() // No-op unless the run is still open (signal path).

	// ── Final save & report ───────────────────────────────────────────
	if db != nil {
		if err := errors.Join(
			db.SaveTicks(runID, sim.Series[savedThrough:]),
			db.SaveEvents(runID, sim.Events),
			db.FinishRun(runID, sim.Summarize()),
		); err != nil {
			slog.Error("final save failed", "error", err)
		}
	}

	fmt.Println()
	fmt.Print(report.Render(sim.Summarize(), sim.Series, sim.Events))

	// Exit status communicates the termination condition.
	switch sim.Outcome {
	case engine.OutcomeComplete:
		os.Exit(0)
	case engine.OutcomeExhausted:
		os.Exit(2)
	default:
		os.Exit(3)
	}
}
