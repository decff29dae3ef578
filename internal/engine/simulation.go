package engine

import (
	"log/slog"

	"github.com/talgya/gridsweep/internal/agents"
	"github.com/talgya/gridsweep/internal/config"
	"github.com/talgya/gridsweep/internal/world"
)

// Outcome is the reason a run ended.
type Outcome uint8

const (
	OutcomeRunning     Outcome = iota
	OutcomeComplete            // Every dirty cell cleaned
	OutcomeExhausted           // Ran out of ticks
	OutcomeInterrupted         // External stop signal between ticks
)

// OutcomeName returns a human-readable name for an outcome.
func OutcomeName(o Outcome) string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeInterrupted:
		return "interrupted"
	default:
		return "running"
	}
}

// Event is a notable occurrence during the run.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "agent", "world", "run"
}

// Simulation owns the grid, the agents, and every aggregate counter.
// Agents act strictly sequentially in creation order, so a later agent
// sees an earlier agent's cleaning within the same tick and dirt
// contention resolves first-writer-wins without locking.
type Simulation struct {
	Grid    *world.Grid
	Agents  []*agents.Agent
	Cfg     config.Config
	Tick    uint64
	Outcome Outcome

	Series []TickStats
	Events []Event
}

// NewSimulation generates the world and spawns one agent per station,
// each starting on its home charger.
func NewSimulation(cfg config.Config) *Simulation {
	grid, stations := world.Generate(world.GenConfig{
		Width:           cfg.Width,
		Height:          cfg.Height,
		Seed:            cfg.Seed,
		DirtyPercent:    cfg.DirtyPercent,
		ObstaclePercent: cfg.ObstaclePercent,
		Agents:          cfg.Agents,
	})

	params := agents.Params{
		MaxBattery:      cfg.MaxBattery,
		CriticalBattery: cfg.CriticalBattery,
		SafeBattery:     cfg.SafeBattery,
		MoveCost:        cfg.MoveCost,
		CleanCost:       cfg.CleanCost,
		ChargeRate:      cfg.ChargeRate,
		IdleRandomMove:  cfg.IdleRandomMove,
	}

	sim := &Simulation{Grid: grid, Cfg: cfg}
	for i, station := range stations {
		a := agents.NewAgent(agents.AgentID(i+1), station, cfg.Width, cfg.Height, params, cfg.Seed)
		sim.Agents = append(sim.Agents, a)
	}

	slog.Info("simulation ready",
		"grid", grid.String(),
		"agents", len(sim.Agents),
		"seed", cfg.Seed,
	)
	return sim
}

// TickOnce advances the whole simulation by one tick and reports
// whether the run is over. One agent's failure never halts the others
// or the run.
func (s *Simulation) TickOnce(tick uint64) bool {
	s.Tick = tick

	for _, a := range s.Agents {
		wasStranded := a.Stranded

		_, err := a.Step(s.Grid)
		if err != nil {
			// Invariant violation inside one agent's tick; contained here.
			slog.Error("agent step failed", "agent", a.ID, "tick", tick, "error", err)
			continue
		}

		if a.Stranded && !wasStranded {
			s.Events = append(s.Events, Event{
				Tick:        tick,
				Description: "agent ran out of battery at " + a.Pos.String(),
				Category:    "agent",
			})
			slog.Warn("agent stranded", "agent", a.ID, "tick", tick, "pos", a.Pos)
		}
	}

	s.Series = append(s.Series, s.collectStats(tick))

	if s.Grid.AllClean() {
		s.finish(OutcomeComplete, tick)
		return true
	}
	if tick >= s.Cfg.MaxTicks {
		s.finish(OutcomeExhausted, tick)
		return true
	}
	return false
}

// Interrupt records an external stop signal. Observed only between
// ticks: the engine stops calling TickOnce afterwards.
func (s *Simulation) Interrupt() {
	if s.Outcome == OutcomeRunning {
		s.finish(OutcomeInterrupted, s.Tick)
	}
}

func (s *Simulation) finish(o Outcome, tick uint64) {
	s.Outcome = o
	s.Events = append(s.Events, Event{
		Tick:        tick,
		Description: "run ended: " + OutcomeName(o),
		Category:    "run",
	})
	slog.Info("run ended",
		"outcome", OutcomeName(o),
		"tick", tick,
		"clean_pct", s.Grid.CleanPercent(),
		"dirty_left", s.Grid.DirtyLeft(),
	)
}
