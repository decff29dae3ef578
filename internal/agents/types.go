// Package agents provides the roomba data model, the per-agent belief
// map, and the layered behavior arbitration that picks one primitive
// action per tick.
package agents

import (
	"github.com/talgya/gridsweep/internal/world"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// ActionKind enumerates the primitive actions an agent can take.
type ActionKind uint8

const (
	ActionWait   ActionKind = iota
	ActionMove              // Step to an adjacent traversable cell
	ActionClean             // Clean the current cell
	ActionCharge            // Recharge on the current station
)

// ActionName returns a human-readable name for an action kind.
func ActionName(k ActionKind) string {
	switch k {
	case ActionMove:
		return "move"
	case ActionClean:
		return "clean"
	case ActionCharge:
		return "charge"
	default:
		return "wait"
	}
}

// Action is what an agent decided to do this tick.
type Action struct {
	Kind   ActionKind  `json:"kind"`
	Target world.Coord `json:"target,omitempty"` // Move only: destination cell
	Layer  string      `json:"layer,omitempty"`  // Which behavior layer proposed it
}

// Params holds the battery model and movement costs: integer percent
// battery, move and clean cost 1, charge rate 5, return-to-charge at 20,
// charge-until 90.
type Params struct {
	MaxBattery      int
	CriticalBattery int // At or below: mandatory return-to-charge
	SafeBattery     int // Charge until at least this level
	MoveCost        int
	CleanCost       int
	ChargeRate      int
	IdleRandomMove  bool // Fully-explored fallback: random walk vs. wait
}

// DefaultParams returns the standard battery model.
func DefaultParams() Params {
	return Params{
		MaxBattery:      100,
		CriticalBattery: 20,
		SafeBattery:     90,
		MoveCost:        1,
		CleanCost:       1,
		ChargeRate:      5,
		IdleRandomMove:  true,
	}
}

// Agent is one roomba: position, battery, belief map, counters.
// Everything here mutates only through Step.
type Agent struct {
	ID  AgentID     `json:"id"`
	Pos world.Coord `json:"pos"`

	Battery int    `json:"battery"`
	Params  Params `json:"-"`

	HomeStation world.Coord `json:"home_station"`
	Knowledge   *KnowledgeMap
	Stranded    bool `json:"stranded"` // Battery hit zero; acts no more

	Steps      uint64 `json:"steps"`
	Movements  int    `json:"movements"`
	Cleans     int    `json:"cleans"`
	Charges    int    `json:"charges"`
	LastAction Action `json:"last_action"`

	controller *Controller
}

// NewAgent creates an agent at the given start cell with a full battery.
// The controller's exploration fallback draws from a generator seeded
// with seed+ID so multi-agent runs stay reproducible.
func NewAgent(id AgentID, start world.Coord, gridW, gridH int, params Params, seed int64) *Agent {
	return &Agent{
		ID:          id,
		Pos:         start,
		Battery:     params.MaxBattery,
		Params:      params,
		HomeStation: start,
		Knowledge:   NewKnowledgeMap(gridW, gridH),
		controller:  NewController(params, seed+int64(id)),
	}
}

// snapshot captures the read-only agent state the behavior layers see.
type snapshot struct {
	Pos        world.Coord
	Battery    int
	Params     Params
	GridWidth  int
	GridHeight int
}

func (a *Agent) snapshot() snapshot {
	return snapshot{
		Pos:        a.Pos,
		Battery:    a.Battery,
		Params:     a.Params,
		GridWidth:  a.Knowledge.width,
		GridHeight: a.Knowledge.height,
	}
}
