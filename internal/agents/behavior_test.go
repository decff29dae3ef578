package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/gridsweep/internal/world"
)

func testSnapshot(pos world.Coord, battery int) snapshot {
	return snapshot{
		Pos:        pos,
		Battery:    battery,
		Params:     DefaultParams(),
		GridWidth:  10,
		GridHeight: 10,
	}
}

func knowledgeWith(t *testing.T, cells map[world.Coord]world.Cell) *KnowledgeMap {
	t.Helper()
	k := NewKnowledgeMap(10, 10)
	k.Observe(cells)
	return k
}

func TestBatteryLayerAbstainsWhenHealthy(t *testing.T) {
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellStation,
	})

	_, ok := batteryLayer{}.Evaluate(testSnapshot(world.Coord{Row: 5, Col: 5}, 80), k)
	assert.False(t, ok)
}

func TestBatteryLayerSeeksStationWhenCritical(t *testing.T) {
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellStation,
	})

	act, ok := batteryLayer{}.Evaluate(testSnapshot(world.Coord{Row: 0, Col: 3}, 20), k)
	require.True(t, ok)
	assert.Equal(t, ActionMove, act.Kind)
	assert.Equal(t, world.Coord{Row: 0, Col: 2}, act.Target)
}

func TestBatteryLayerChargesUntilSafe(t *testing.T) {
	station := world.Coord{Row: 0, Col: 0}
	k := knowledgeWith(t, map[world.Coord]world.Cell{station: world.CellStation})

	act, ok := batteryLayer{}.Evaluate(testSnapshot(station, 50), k)
	require.True(t, ok)
	assert.Equal(t, ActionCharge, act.Kind)

	// At the safe threshold the layer releases control.
	_, ok = batteryLayer{}.Evaluate(testSnapshot(station, 90), k)
	assert.False(t, ok)
}

func TestBatteryLayerHeadsForCenterWithNoKnownStation(t *testing.T) {
	k := NewKnowledgeMap(10, 10)

	act, ok := batteryLayer{}.Evaluate(testSnapshot(world.Coord{Row: 0, Col: 0}, 15), k)
	require.True(t, ok)
	assert.Equal(t, ActionMove, act.Kind)
	// Larger delta is the row axis (tied at 5 each, row wins the tie).
	assert.Equal(t, world.Coord{Row: 1, Col: 0}, act.Target)
}

func TestCleaningLayerCleansBeforeMoving(t *testing.T) {
	pos := world.Coord{Row: 3, Col: 3}
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		pos:              world.CellDirty,
		{Row: 0, Col: 0}: world.CellDirty, // A farther dirty cell must not distract
	})

	act, ok := cleaningLayer{}.Evaluate(testSnapshot(pos, 100), k)
	require.True(t, ok)
	assert.Equal(t, ActionClean, act.Kind)
}

func TestCleaningLayerGreedyStepLargerDeltaFirst(t *testing.T) {
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 6, Col: 4}: world.CellDirty,
	})

	// From (2,3): row delta 4, col delta 1, so rows reduce first.
	act, ok := cleaningLayer{}.Evaluate(testSnapshot(world.Coord{Row: 2, Col: 3}, 100), k)
	require.True(t, ok)
	assert.Equal(t, ActionMove, act.Kind)
	assert.Equal(t, world.Coord{Row: 3, Col: 3}, act.Target)
}

func TestCleaningLayerAbstainsWithoutKnownDirt(t *testing.T) {
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 1, Col: 1}: world.CellClean,
	})

	_, ok := cleaningLayer{}.Evaluate(testSnapshot(world.Coord{Row: 1, Col: 1}, 100), k)
	assert.False(t, ok)
}

func TestAvoidanceRewritesBlockedMoveClockwise(t *testing.T) {
	pos := world.Coord{Row: 2, Col: 2}
	// Dirt due north, but the cell north of the agent is an obstacle.
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 0, Col: 2}: world.CellDirty,
		{Row: 1, Col: 2}: world.CellObstacle,
		{Row: 2, Col: 3}: world.CellClean,
	})

	layer := avoidanceLayer{below: []Layer{cleaningLayer{}}}
	act, ok := layer.Evaluate(testSnapshot(pos, 100), k)
	require.True(t, ok)
	assert.Equal(t, ActionMove, act.Kind)
	// Clockwise from blocked north: east is the first alternative.
	assert.Equal(t, world.Coord{Row: 2, Col: 3}, act.Target)
}

func TestAvoidanceAbstainsWhenPathClear(t *testing.T) {
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 0, Col: 2}: world.CellDirty,
	})

	layer := avoidanceLayer{below: []Layer{cleaningLayer{}}}
	_, ok := layer.Evaluate(testSnapshot(world.Coord{Row: 2, Col: 2}, 100), k)
	assert.False(t, ok)
}

func TestAvoidanceWaitsWhenBoxedIn(t *testing.T) {
	pos := world.Coord{Row: 1, Col: 1}
	k := NewKnowledgeMap(3, 3)
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellDirty, // Diagonal dirt the agent cannot reach
		{Row: 0, Col: 1}: world.CellObstacle,
		{Row: 1, Col: 0}: world.CellObstacle,
		{Row: 1, Col: 2}: world.CellObstacle,
		{Row: 2, Col: 1}: world.CellObstacle,
	})

	layer := avoidanceLayer{below: []Layer{cleaningLayer{}}}
	s := snapshot{Pos: pos, Battery: 100, Params: DefaultParams(), GridWidth: 3, GridHeight: 3}
	act, ok := layer.Evaluate(s, k)
	require.True(t, ok)
	assert.Equal(t, ActionWait, act.Kind)
}

func TestExplorationSeeksFrontier(t *testing.T) {
	k := knowledgeWith(t, map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellClean,
		{Row: 0, Col: 1}: world.CellClean,
		{Row: 1, Col: 0}: world.CellClean,
		{Row: 1, Col: 1}: world.CellClean,
	})

	layer := explorationLayer{rng: rand.New(rand.NewSource(1))}
	act, ok := layer.Evaluate(testSnapshot(world.Coord{Row: 0, Col: 0}, 100), k)
	require.True(t, ok)
	assert.Equal(t, ActionMove, act.Kind)
	// Nearest unknown is east of the known block.
	assert.Equal(t, world.Coord{Row: 0, Col: 1}, act.Target)
}

func TestExplorationRandomWalkWhenFullyExplored(t *testing.T) {
	k := NewKnowledgeMap(2, 2)
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellClean,
		{Row: 0, Col: 1}: world.CellClean,
		{Row: 1, Col: 0}: world.CellClean,
		{Row: 1, Col: 1}: world.CellClean,
	})

	layer := explorationLayer{rng: rand.New(rand.NewSource(1))}
	s := snapshot{Pos: world.Coord{Row: 0, Col: 0}, Battery: 100, Params: DefaultParams(), GridWidth: 2, GridHeight: 2}
	act, ok := layer.Evaluate(s, k)
	require.True(t, ok)
	assert.Equal(t, ActionMove, act.Kind)
	assert.Contains(t, []world.Coord{{Row: 0, Col: 1}, {Row: 1, Col: 0}}, act.Target)
}

func TestExplorationAbstainsWhenIdleConfigured(t *testing.T) {
	k := NewKnowledgeMap(2, 2)
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellClean,
		{Row: 0, Col: 1}: world.CellClean,
		{Row: 1, Col: 0}: world.CellClean,
		{Row: 1, Col: 1}: world.CellClean,
	})

	params := DefaultParams()
	params.IdleRandomMove = false
	layer := explorationLayer{rng: rand.New(rand.NewSource(1))}
	s := snapshot{Pos: world.Coord{Row: 0, Col: 0}, Battery: 100, Params: params, GridWidth: 2, GridHeight: 2}
	_, ok := layer.Evaluate(s, k)
	assert.False(t, ok)
}
