package agents

import (
	"errors"
	"fmt"

	"github.com/talgya/gridsweep/internal/world"
)

// ErrBlockedMove reports an accepted move into a non-traversable cell.
// The avoidance layer rewrites blocked proposals before arbitration, so
// seeing this error means a layer invariant broke.
var ErrBlockedMove = errors.New("move target not traversable")

// Step runs one full tick for the agent against the shared grid:
// perceive the 3×3 neighborhood, arbitrate one action, apply it.
// A stranded agent (battery 0) waits forever but stays in the metrics.
func (a *Agent) Step(g *world.Grid) (Action, error) {
	if a.Stranded {
		a.LastAction = Action{Kind: ActionWait, Layer: "stranded"}
		return a.LastAction, nil
	}

	a.Steps++
	a.perceive(g)

	act := a.controller.Decide(a.snapshot(), a.Knowledge)

	if err := a.apply(g, act); err != nil {
		return act, err
	}

	if a.Battery < 0 {
		a.Battery = 0
	}
	if a.Battery > a.Params.MaxBattery {
		a.Battery = a.Params.MaxBattery
	}
	if a.Battery == 0 {
		a.Stranded = true
	}

	a.LastAction = act
	return act, nil
}

// perceive samples the 3×3 neighborhood centered on the agent and
// records it in the belief map. Out-of-bounds cells are skipped; the
// belief map tracks bounds itself.
func (a *Agent) perceive(g *world.Grid) {
	visible := make(map[world.Coord]world.Cell, 9)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c := world.Coord{Row: a.Pos.Row + dr, Col: a.Pos.Col + dc}
			cell, err := g.CellAt(c)
			if err != nil {
				continue
			}
			visible[c] = cell
		}
	}
	a.Knowledge.Observe(visible)
}

func (a *Agent) apply(g *world.Grid, act Action) error {
	switch act.Kind {
	case ActionMove:
		if !g.IsTraversable(act.Target) {
			return fmt.Errorf("agent %d at %s to %s: %w", a.ID, a.Pos, act.Target, ErrBlockedMove)
		}
		a.Pos = act.Target
		a.Battery -= a.Params.MoveCost
		a.Movements++

	case ActionClean:
		err := g.CleanCell(a.Pos)
		switch {
		case err == nil:
			a.Cleans++
			a.Battery -= a.Params.CleanCost
		case errors.Is(err, world.ErrNothingToClean):
			// Stale belief already corrected by this tick's perception;
			// cleaning a clean cell costs nothing and changes nothing.
		default:
			return err
		}

	case ActionCharge:
		a.Battery += a.Params.ChargeRate
		a.Charges++

	case ActionWait:
		// No-op.
	}
	return nil
}
