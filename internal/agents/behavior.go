// Behavior layers of the subsumption stack, highest priority first:
// battery management, obstacle avoidance, cleaning, exploration.
// Each layer proposes at most one action per tick and knows nothing
// about the layers above it.

package agents

import (
	"math/rand"

	"github.com/talgya/gridsweep/internal/world"
)

// Layer is one subsumption tier. Evaluate returns the proposed action
// and true, or abstains with false. Layers read only the snapshot and
// the belief map; they hold no per-tick state.
type Layer interface {
	Name() string
	Evaluate(s snapshot, k *KnowledgeMap) (Action, bool)
}

// batteryLayer brings the agent home when charge runs low and keeps it
// charging until the battery is safe again.
type batteryLayer struct{}

func (batteryLayer) Name() string { return "battery" }

func (l batteryLayer) Evaluate(s snapshot, k *KnowledgeMap) (Action, bool) {
	onStation := k.BeliefAt(s.Pos) == world.CellStation

	// Charge until safe; once there, release control to lower layers.
	if onStation && s.Battery < s.Params.SafeBattery {
		return Action{Kind: ActionCharge, Layer: l.Name()}, true
	}

	if s.Battery > s.Params.CriticalBattery || onStation {
		return Action{}, false
	}

	// Head for the nearest believed station. If none has been seen yet,
	// push toward the grid center: stations are likeliest to turn up
	// in the interior, and the move keeps the search alive.
	goal, ok := k.NearestStation(s.Pos)
	if !ok {
		goal = world.Coord{Row: s.GridHeight / 2, Col: s.GridWidth / 2}
		if goal == s.Pos {
			return Action{}, false
		}
	}

	step, ok := greedyStep(k, s.Pos, goal)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: ActionMove, Target: step, Layer: l.Name()}, true
}

// avoidanceLayer inspects what the layers below it would do and rewrites
// a move into a blocked cell to an alternate traversable neighbor,
// chosen clockwise from the blocked direction.
type avoidanceLayer struct {
	below []Layer
}

func (avoidanceLayer) Name() string { return "avoidance" }

func (l avoidanceLayer) Evaluate(s snapshot, k *KnowledgeMap) (Action, bool) {
	var proposed Action
	ok := false
	for _, layer := range l.below {
		if act, yes := layer.Evaluate(s, k); yes {
			proposed = act
			ok = true
			break
		}
	}
	if !ok || proposed.Kind != ActionMove || k.Traversable(proposed.Target) {
		return Action{}, false
	}

	// Clockwise scan starting just past the blocked direction.
	neighbors := s.Pos.Neighbors4()
	blocked := 0
	for i, n := range neighbors {
		if n == proposed.Target {
			blocked = i
			break
		}
	}
	for off := 1; off < 4; off++ {
		n := neighbors[(blocked+off)%4]
		if k.Traversable(n) {
			return Action{Kind: ActionMove, Target: n, Layer: l.Name()}, true
		}
	}

	// Boxed in on all sides: the only safe act is to stay put.
	return Action{Kind: ActionWait, Layer: l.Name()}, true
}

// cleaningLayer cleans the cell under the agent, or heads for the
// nearest known dirt.
type cleaningLayer struct{}

func (cleaningLayer) Name() string { return "cleaning" }

func (l cleaningLayer) Evaluate(s snapshot, k *KnowledgeMap) (Action, bool) {
	if k.BeliefAt(s.Pos) == world.CellDirty {
		return Action{Kind: ActionClean, Layer: l.Name()}, true
	}

	goal, ok := k.NearestDirty(s.Pos)
	if !ok {
		return Action{}, false
	}
	// Raw Manhattan-greedy step; the avoidance layer above rewrites it
	// when the preferred cell is blocked.
	step, ok := rawGreedyStep(s.Pos, goal)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: ActionMove, Target: step, Layer: l.Name()}, true
}

// explorationLayer pushes toward the nearest reachable frontier; on a
// fully-explored map it falls back to a seeded random walk (or abstains
// when configured to idle).
type explorationLayer struct {
	rng *rand.Rand
}

func (explorationLayer) Name() string { return "exploration" }

func (l explorationLayer) Evaluate(s snapshot, k *KnowledgeMap) (Action, bool) {
	if step, ok := k.FrontierStep(s.Pos); ok {
		return Action{Kind: ActionMove, Target: step, Layer: l.Name()}, true
	}

	if !s.Params.IdleRandomMove {
		return Action{}, false
	}

	var open []world.Coord
	for _, n := range s.Pos.Neighbors4() {
		if k.Traversable(n) {
			open = append(open, n)
		}
	}
	if len(open) == 0 {
		return Action{}, false
	}
	target := open[l.rng.Intn(len(open))]
	return Action{Kind: ActionMove, Target: target, Layer: l.Name()}, true
}

// rawGreedyStep is one Manhattan-greedy step from from toward to:
// reduce the larger coordinate delta first, row before column on ties.
// No traversability check; that is the avoidance layer's job.
func rawGreedyStep(from, to world.Coord) (world.Coord, bool) {
	if from == to {
		return world.Coord{}, false
	}
	dRow := to.Row - from.Row
	dCol := to.Col - from.Col

	rowStep := world.Coord{Row: from.Row + sign(dRow), Col: from.Col}
	colStep := world.Coord{Row: from.Row, Col: from.Col + sign(dCol)}

	if abs(dRow) >= abs(dCol) && dRow != 0 {
		return rowStep, true
	}
	return colStep, true
}

// greedyStep is the traversability-aware variant used by the battery
// layer, which sits above avoidance and must police its own moves:
// preferred axis first, other axis second, then the remaining neighbors
// clockwise.
func greedyStep(k *KnowledgeMap, from, to world.Coord) (world.Coord, bool) {
	if from == to {
		return world.Coord{}, false
	}
	dRow := to.Row - from.Row
	dCol := to.Col - from.Col

	var prefs []world.Coord
	rowStep := world.Coord{Row: from.Row + sign(dRow), Col: from.Col}
	colStep := world.Coord{Row: from.Row, Col: from.Col + sign(dCol)}

	if abs(dRow) >= abs(dCol) {
		if dRow != 0 {
			prefs = append(prefs, rowStep)
		}
		if dCol != 0 {
			prefs = append(prefs, colStep)
		}
	} else {
		prefs = append(prefs, colStep)
		if dRow != 0 {
			prefs = append(prefs, rowStep)
		}
	}
	for _, n := range from.Neighbors4() {
		prefs = append(prefs, n)
	}

	seen := make(map[world.Coord]bool, len(prefs))
	for _, c := range prefs {
		if seen[c] {
			continue
		}
		seen[c] = true
		if k.Traversable(c) {
			return c, true
		}
	}
	return world.Coord{}, false
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
