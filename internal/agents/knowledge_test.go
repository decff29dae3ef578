package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/gridsweep/internal/world"
)

func TestObserveAndBelief(t *testing.T) {
	k := NewKnowledgeMap(5, 5)

	c := world.Coord{Row: 2, Col: 2}
	assert.Equal(t, world.CellUnknown, k.BeliefAt(c))

	k.Observe(map[world.Coord]world.Cell{c: world.CellDirty})
	assert.Equal(t, world.CellDirty, k.BeliefAt(c))

	// Re-observation overwrites, never removes.
	k.Observe(map[world.Coord]world.Cell{c: world.CellClean})
	assert.Equal(t, world.CellClean, k.BeliefAt(c))
	assert.Equal(t, 1, k.KnownCount())
}

func TestExplorationRatioMonotonic(t *testing.T) {
	k := NewKnowledgeMap(4, 4)
	prev := k.ExplorationRatio()

	cells := []world.Coord{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 0}, {Row: 3, Col: 3},
	}
	for _, c := range cells {
		k.Observe(map[world.Coord]world.Cell{c: world.CellClean})
		ratio := k.ExplorationRatio()
		assert.GreaterOrEqual(t, ratio, prev)
		prev = ratio
	}
	assert.InDelta(t, 3.0/16.0, prev, 1e-9)
}

func TestNearestDirtyRowMajorTieBreak(t *testing.T) {
	k := NewKnowledgeMap(5, 5)
	from := world.Coord{Row: 2, Col: 2}

	// Two dirty cells at equal Manhattan distance 2.
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 2}: world.CellDirty,
		{Row: 2, Col: 0}: world.CellDirty,
	})

	got, ok := k.NearestDirty(from)
	require.True(t, ok)
	assert.Equal(t, world.Coord{Row: 0, Col: 2}, got, "row-major scan order breaks the tie")
}

func TestNearestDirtyPrefersCloser(t *testing.T) {
	k := NewKnowledgeMap(5, 5)
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellDirty,
		{Row: 4, Col: 4}: world.CellDirty,
	})

	got, ok := k.NearestDirty(world.Coord{Row: 3, Col: 3})
	require.True(t, ok)
	assert.Equal(t, world.Coord{Row: 4, Col: 4}, got)

	_, ok = k.NearestStation(world.Coord{Row: 0, Col: 0})
	assert.False(t, ok, "no station observed yet")
}

func TestFrontierStepRoutesAroundKnownObstacles(t *testing.T) {
	// Agent at (1,1); everything in rows 0-1 known, row 2 blocked except
	// col 2. The nearest reachable unknown is behind the gap.
	k := NewKnowledgeMap(3, 4)
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellClean,
		{Row: 0, Col: 1}: world.CellClean,
		{Row: 0, Col: 2}: world.CellClean,
		{Row: 1, Col: 0}: world.CellClean,
		{Row: 1, Col: 1}: world.CellClean,
		{Row: 1, Col: 2}: world.CellClean,
		{Row: 2, Col: 0}: world.CellObstacle,
		{Row: 2, Col: 1}: world.CellObstacle,
		{Row: 2, Col: 2}: world.CellClean,
	})

	step, ok := k.FrontierStep(world.Coord{Row: 1, Col: 1})
	require.True(t, ok)
	assert.Equal(t, world.Coord{Row: 1, Col: 2}, step, "first step of the path toward the gap")
}

func TestFrontierStepNoneWhenFullyExplored(t *testing.T) {
	k := NewKnowledgeMap(2, 2)
	k.Observe(map[world.Coord]world.Cell{
		{Row: 0, Col: 0}: world.CellClean,
		{Row: 0, Col: 1}: world.CellClean,
		{Row: 1, Col: 0}: world.CellClean,
		{Row: 1, Col: 1}: world.CellClean,
	})

	_, ok := k.FrontierStep(world.Coord{Row: 0, Col: 0})
	assert.False(t, ok)
}
