package engine

import (
	"github.com/talgya/gridsweep/internal/agents"
	"github.com/talgya/gridsweep/internal/world"
)

// RenderSnapshot is the read-only view handed to the rendering
// collaborator once per tick. Nothing in it can mutate the core.
type RenderSnapshot struct {
	Tick    uint64       `json:"tick"`
	Outcome string       `json:"outcome"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Cells   []world.Cell `json:"cells"` // Row-major copy
	Agents  []AgentView  `json:"agents"`
	Stats   TickStats    `json:"stats"`
}

// AgentView is one agent's render state.
type AgentView struct {
	ID         agents.AgentID `json:"id"`
	Pos        world.Coord    `json:"pos"`
	Battery    int            `json:"battery"`
	Stranded   bool           `json:"stranded"`
	LastAction string         `json:"last_action"`
	Explored   float64        `json:"explored"`
}

// Snapshot copies the current world and agent state.
func (s *Simulation) Snapshot() RenderSnapshot {
	snap := RenderSnapshot{
		Tick:    s.Tick,
		Outcome: OutcomeName(s.Outcome),
		Width:   s.Grid.Width,
		Height:  s.Grid.Height,
		Cells:   s.Grid.Snapshot(),
	}
	for _, a := range s.Agents {
		snap.Agents = append(snap.Agents, AgentView{
			ID:         a.ID,
			Pos:        a.Pos,
			Battery:    a.Battery,
			Stranded:   a.Stranded,
			LastAction: agents.ActionName(a.LastAction.Kind),
			Explored:   a.Knowledge.ExplorationRatio(),
		})
	}
	if len(s.Series) > 0 {
		snap.Stats = s.Series[len(s.Series)-1]
	}
	return snap
}
