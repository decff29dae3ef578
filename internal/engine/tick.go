// Package engine provides the tick-based simulation loop.
package engine

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward. Scheduling is strictly
// turn-based: one global tick at a time, no agent ever mid-step when
// the next begins.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic)
	Speed    float64       // Multiplier: 1.0 = configured pace, 0 = paused
	Interval time.Duration // Base tick interval; 0 = run flat out
	Running  bool

	// OnTick advances the simulation and reports whether the run is
	// done. OnCheckpoint, when set, fires every CheckpointEvery ticks
	// for periodic persistence.
	OnTick          func(tick uint64) bool
	OnCheckpoint    func(tick uint64)
	CheckpointEvery uint64
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:           1.0,
		CheckpointEvery: 100,
	}
}

// Run executes ticks until the simulation reports done or Stop is
// called. Blocks. The stop flag is only consulted between ticks.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("engine started", "tick", e.Tick, "interval", e.Interval)

	for e.Running {
		if e.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.Tick++

		done := e.OnTick(e.Tick)

		if e.CheckpointEvery > 0 && e.Tick%e.CheckpointEvery == 0 && e.OnCheckpoint != nil {
			e.OnCheckpoint(e.Tick)
		}

		if done {
			e.Running = false
			break
		}

		if e.Interval > 0 {
			elapsed := time.Since(start)
			target := time.Duration(float64(e.Interval) / e.Speed)
			if elapsed < target {
				time.Sleep(target - elapsed)
			}
		}
	}

	slog.Info("engine stopped", "tick", e.Tick)
}

// Stop halts the loop after the current tick completes.
func (e *Engine) Stop() {
	e.Running = false
}
