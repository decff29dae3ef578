package agents

import (
	"math/rand"
)

// Controller arbitrates the behavior layers by strict subsumption:
// layers are evaluated highest priority first and the first concrete
// proposal wins outright, with no voting or blending. It keeps no state
// across ticks beyond what the agent and belief map carry.
type Controller struct {
	layers []Layer
}

// NewController builds the four-tier stack. The seed feeds only the
// exploration fallback's generator, keeping runs reproducible.
func NewController(params Params, seed int64) *Controller {
	cleaning := cleaningLayer{}
	exploration := explorationLayer{rng: rand.New(rand.NewSource(seed))}
	return &Controller{
		layers: []Layer{
			batteryLayer{},
			avoidanceLayer{below: []Layer{cleaning, exploration}},
			cleaning,
			exploration,
		},
	}
}

// Decide returns the tick's single action. Exploration's random-walk
// fallback means all layers abstaining is rare (a boxed-in agent with
// idling configured); the controller then emits Wait.
func (c *Controller) Decide(s snapshot, k *KnowledgeMap) Action {
	for _, layer := range c.layers {
		if act, ok := layer.Evaluate(s, k); ok {
			return act
		}
	}
	return Action{Kind: ActionWait, Layer: "controller"}
}

// Layers exposes the stack in priority order for tests and diagnostics.
func (c *Controller) Layers() []Layer {
	return c.layers
}
