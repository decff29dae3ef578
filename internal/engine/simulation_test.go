package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/gridsweep/internal/config"
	"github.com/talgya/gridsweep/internal/world"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Seed = 42
	cfg.MaxTicks = 400
	return cfg
}

func runTicks(sim *Simulation, max uint64) {
	for tick := uint64(1); tick <= max; tick++ {
		if sim.TickOnce(tick) {
			return
		}
	}
}

func TestDeterministicSeries(t *testing.T) {
	cfg := testConfig()
	cfg.Agents = 3

	sim1 := NewSimulation(cfg)
	sim2 := NewSimulation(cfg)
	runTicks(sim1, cfg.MaxTicks)
	runTicks(sim2, cfg.MaxTicks)

	require.Equal(t, len(sim1.Series), len(sim2.Series))
	assert.Equal(t, sim1.Series, sim2.Series)
	assert.Equal(t, sim1.Outcome, sim2.Outcome)
}

func TestBatteryBoundsEveryTick(t *testing.T) {
	cfg := testConfig()
	cfg.Agents = 2

	sim := NewSimulation(cfg)
	for tick := uint64(1); tick <= cfg.MaxTicks; tick++ {
		done := sim.TickOnce(tick)
		for _, a := range sim.Agents {
			assert.GreaterOrEqual(t, a.Battery, 0)
			assert.LessOrEqual(t, a.Battery, cfg.MaxBattery)
		}
		if done {
			break
		}
	}
}

func TestExplorationNeverDecreases(t *testing.T) {
	cfg := testConfig()
	sim := NewSimulation(cfg)

	prev := 0.0
	for tick := uint64(1); tick <= 100; tick++ {
		done := sim.TickOnce(tick)
		ratio := sim.Agents[0].Knowledge.ExplorationRatio()
		assert.GreaterOrEqual(t, ratio, prev)
		prev = ratio
		if done {
			break
		}
	}
}

func TestCompletesOnSmallOpenGrid(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 5
	cfg.Height = 5
	cfg.ObstaclePercent = 0
	cfg.DirtyPercent = 0.2
	cfg.MaxTicks = 2000

	sim := NewSimulation(cfg)
	runTicks(sim, cfg.MaxTicks)

	assert.Equal(t, OutcomeComplete, sim.Outcome)
	assert.True(t, sim.Grid.AllClean())
	assert.Equal(t, sim.Grid.InitialDirty(), sim.Grid.CleanedCount())
}

func TestCleanCountStopsAfterCompletion(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 4
	cfg.Height = 4
	cfg.ObstaclePercent = 0
	cfg.DirtyPercent = 0.1
	cfg.MaxTicks = 2000

	sim := NewSimulation(cfg)
	runTicks(sim, cfg.MaxTicks)
	require.Equal(t, OutcomeComplete, sim.Outcome)

	cleaned := sim.Grid.CleanedCount()

	// Keep ticking past completion: nothing left to clean.
	end := sim.Tick + 20
	for tick := sim.Tick + 1; tick <= end; tick++ {
		sim.TickOnce(tick)
	}
	assert.Equal(t, cleaned, sim.Grid.CleanedCount())
}

func TestStrandedAgentDoesNotHaltOthers(t *testing.T) {
	cfg := testConfig()
	cfg.Agents = 2
	cfg.Width = 8
	cfg.Height = 8
	cfg.ObstaclePercent = 0

	sim := NewSimulation(cfg)

	// Drain the first agent and drop it away from any charger so it
	// strands on its first action.
	stations := sim.Grid.Stations()
	for i := 0; i < cfg.Width*cfg.Height; i++ {
		pos := world.Coord{Row: i / cfg.Width, Col: i % cfg.Width}
		onStation := false
		for _, st := range stations {
			if st == pos {
				onStation = true
				break
			}
		}
		if !onStation {
			sim.Agents[0].Pos = pos
			break
		}
	}
	sim.Agents[0].Battery = 1

	runTicks(sim, 50)

	assert.True(t, sim.Agents[0].Stranded)
	assert.False(t, sim.Agents[1].Stranded)
	assert.Positive(t, sim.Agents[1].Movements+sim.Agents[1].Cleans)

	last := sim.Series[len(sim.Series)-1]
	assert.Equal(t, 1, last.Stranded)
}

func TestInterruptRecordsOutcome(t *testing.T) {
	cfg := testConfig()
	sim := NewSimulation(cfg)
	runTicks(sim, 10)

	sim.Interrupt()
	assert.Equal(t, OutcomeInterrupted, sim.Outcome)

	// A finished run keeps its original outcome.
	sim.Interrupt()
	assert.Equal(t, OutcomeInterrupted, sim.Outcome)
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	cfg := testConfig()
	sim := NewSimulation(cfg)
	sim.TickOnce(1)

	snap := sim.Snapshot()
	require.NotEmpty(t, snap.Cells)
	require.Len(t, snap.Agents, 1)

	// Mutating the snapshot's cells must not touch the grid.
	before := sim.Grid.Snapshot()
	for i := range snap.Cells {
		snap.Cells[i] = 0
	}
	assert.Equal(t, before, sim.Grid.Snapshot())
}

func TestSummarizeEfficiency(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 5
	cfg.Height = 5
	cfg.ObstaclePercent = 0
	cfg.DirtyPercent = 0.2
	cfg.MaxTicks = 2000

	sim := NewSimulation(cfg)
	runTicks(sim, cfg.MaxTicks)

	sum := sim.Summarize()
	assert.Equal(t, "complete", sum.Outcome)
	assert.Equal(t, sim.Grid.InitialDirty(), sum.Cleaned)
	assert.Positive(t, sum.Movements)
	assert.Positive(t, sum.CleaningEfficiency)
}
