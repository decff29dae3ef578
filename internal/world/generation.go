// World generation: charging stations, then obstacles, then a
// noise-shaped dirt field. Layout is fixed once generated; all
// randomness is seeded and scoped to this file.

package world

import (
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width           int
	Height          int
	Seed            int64
	DirtyPercent    float64 // Share of cells initially dirty (0.0–1.0)
	ObstaclePercent float64 // Share of cells that are obstacles (0.0–1.0)
	Agents          int     // One charging station is placed per agent
}

// DefaultGenConfig returns the standard layout: a 10×10 room, 30% dirty,
// 20% obstacles, a single roomba.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:           10,
		Height:          10,
		Seed:            0,
		DirtyPercent:    0.3,
		ObstaclePercent: 0.2,
		Agents:          1,
	}
}

// Generate builds a grid and returns it together with the station
// coordinates, one per agent, in placement order. Agents spawn on their
// home station. A single-agent run uses the fixed station at (1,1);
// multi-agent runs draw station cells from the seeded generator.
func Generate(cfg GenConfig) (*Grid, []Coord) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	g := NewGrid(cfg.Width, cfg.Height)

	stations := placeStations(g, cfg, rng)
	placeObstacles(g, cfg, rng)
	placeDirt(g, cfg, seed)

	g.initialDirty = g.dirtyLeft
	return g, stations
}

func placeStations(g *Grid, cfg GenConfig, rng *rand.Rand) []Coord {
	if cfg.Agents == 1 {
		c := Coord{Row: 1, Col: 1}
		g.setCell(c, CellStation)
		return []Coord{c}
	}

	stations := make([]Coord, 0, cfg.Agents)
	for len(stations) < cfg.Agents {
		c := Coord{Row: rng.Intn(g.Height), Col: rng.Intn(g.Width)}
		if cell, _ := g.CellAt(c); cell == CellStation {
			continue
		}
		g.setCell(c, CellStation)
		stations = append(stations, c)
	}
	return stations
}

func placeObstacles(g *Grid, cfg GenConfig, rng *rand.Rand) {
	free := openCells(g)
	budget := int(float64(g.Width*g.Height) * cfg.ObstaclePercent)
	if budget > len(free) {
		budget = len(free)
	}

	rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})
	for _, c := range free[:budget] {
		g.setCell(c, CellObstacle)
	}
}

// placeDirt marks the configured share of remaining cells dirty. A
// simplex noise field shapes the result so dirt clusters the way dust
// gathers in real rooms, while the budget stays exact: the cells with
// the highest noise values win, ties resolved row-major.
func placeDirt(g *Grid, cfg GenConfig, seed int64) {
	free := openCells(g)
	budget := int(float64(g.Width*g.Height) * cfg.DirtyPercent)
	if budget > len(free) {
		budget = len(free)
	}
	if budget == 0 {
		return
	}

	noise := opensimplex.NewNormalized(seed + 1)

	type scored struct {
		coord Coord
		val   float64
	}
	candidates := make([]scored, len(free))
	for i, c := range free {
		candidates[i] = scored{
			coord: c,
			val:   noise.Eval2(float64(c.Col)*0.35, float64(c.Row)*0.35),
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].val != candidates[j].val {
			return candidates[i].val > candidates[j].val
		}
		return candidates[i].coord.Less(candidates[j].coord)
	})

	for _, s := range candidates[:budget] {
		g.setCell(s.coord, CellDirty)
	}
}

// openCells returns all clean (unassigned) coordinates row-major.
func openCells(g *Grid) []Coord {
	var out []Coord
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := Coord{Row: row, Col: col}
			if cell, _ := g.CellAt(c); cell == CellClean {
				out = append(out, c)
			}
		}
	}
	return out
}
