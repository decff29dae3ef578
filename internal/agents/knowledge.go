package agents

import (
	"github.com/talgya/gridsweep/internal/world"
)

// KnowledgeMap is an agent's partial belief over the grid, built only
// from that agent's own perception. Entries are overwritten when
// re-observed, never removed, so the known set only grows.
type KnowledgeMap struct {
	width   int
	height  int
	beliefs map[world.Coord]world.Cell
}

// NewKnowledgeMap creates an empty belief map over a width×height grid.
func NewKnowledgeMap(width, height int) *KnowledgeMap {
	return &KnowledgeMap{
		width:   width,
		height:  height,
		beliefs: make(map[world.Coord]world.Cell),
	}
}

// Observe records the given cell states, overwriting prior beliefs.
func (k *KnowledgeMap) Observe(visible map[world.Coord]world.Cell) {
	for c, cell := range visible {
		k.beliefs[c] = cell
	}
}

// BeliefAt returns the last-observed state of a coordinate, or
// CellUnknown if it has never been seen.
func (k *KnowledgeMap) BeliefAt(c world.Coord) world.Cell {
	if cell, ok := k.beliefs[c]; ok {
		return cell
	}
	return world.CellUnknown
}

// InBounds reports whether the coordinate lies on the grid the agent
// is operating in.
func (k *KnowledgeMap) InBounds(c world.Coord) bool {
	return c.Row >= 0 && c.Row < k.height && c.Col >= 0 && c.Col < k.width
}

// Traversable reports whether the agent believes it could stand on the
// coordinate: in bounds and not a known obstacle. Unknown cells count
// as traversable for planning; adjacent cells are always freshly
// observed, so an immediate move never lands on a surprise obstacle.
func (k *KnowledgeMap) Traversable(c world.Coord) bool {
	return k.InBounds(c) && k.BeliefAt(c) != world.CellObstacle
}

// KnownCount returns how many coordinates have been observed.
func (k *KnowledgeMap) KnownCount() int {
	return len(k.beliefs)
}

// ExplorationRatio returns known cells over total cells, 0.0–1.0.
// Never decreases across ticks.
func (k *KnowledgeMap) ExplorationRatio() float64 {
	return float64(len(k.beliefs)) / float64(k.width*k.height)
}

// NearestDirty returns the believed-dirty coordinate nearest to from by
// Manhattan distance. Ties resolve to the row-major earliest coordinate.
func (k *KnowledgeMap) NearestDirty(from world.Coord) (world.Coord, bool) {
	return k.nearest(from, world.CellDirty)
}

// NearestStation returns the nearest believed charging station.
// Stations never move, so once discovered they stay known.
func (k *KnowledgeMap) NearestStation(from world.Coord) (world.Coord, bool) {
	return k.nearest(from, world.CellStation)
}

// nearest scans row-major so equal distances always resolve the same way.
func (k *KnowledgeMap) nearest(from world.Coord, want world.Cell) (world.Coord, bool) {
	var best world.Coord
	bestDist := -1
	for row := 0; row < k.height; row++ {
		for col := 0; col < k.width; col++ {
			c := world.Coord{Row: row, Col: col}
			if k.BeliefAt(c) != want {
				continue
			}
			d := from.ManhattanTo(c)
			if bestDist < 0 || d < bestDist {
				best = c
				bestDist = d
			}
		}
	}
	return best, bestDist >= 0
}

// FrontierStep returns the first step of the shortest believed-safe path
// from from to the nearest unknown cell: a breadth-first search over
// cells not believed to be obstacles, in the fixed north/east/south/west
// neighbor order. Returns false when every unknown cell is walled off.
func (k *KnowledgeMap) FrontierStep(from world.Coord) (world.Coord, bool) {
	type node struct {
		pos   world.Coord
		first world.Coord // First step taken from the origin
	}

	visited := map[world.Coord]bool{from: true}
	var queue []node

	for _, n := range from.Neighbors4() {
		if !k.Traversable(n) {
			continue
		}
		if k.BeliefAt(n) == world.CellUnknown {
			return n, true
		}
		visited[n] = true
		queue = append(queue, node{pos: n, first: n})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.pos.Neighbors4() {
			if visited[n] || !k.Traversable(n) {
				continue
			}
			if k.BeliefAt(n) == world.CellUnknown {
				return cur.first, true
			}
			visited[n] = true
			queue = append(queue, node{pos: n, first: cur.first})
		}
	}

	return world.Coord{}, false
}
