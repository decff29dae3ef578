// Package world provides the shared grid environment: cell states,
// bounds checks, and the single legal mutation (dirty → clean).
package world

import (
	"errors"
	"fmt"
)

// Cell is the state of one grid coordinate. Every coordinate holds
// exactly one state at any time.
type Cell uint8

const (
	CellClean   Cell = iota
	CellDirty        // Cleanable; the only mutable state
	CellObstacle
	CellStation // Charging station, fixed for the run
	// CellUnknown never appears in a Grid. It is the default belief for
	// coordinates an agent has not observed yet.
	CellUnknown
)

// CellName returns a human-readable name for a cell state.
func CellName(c Cell) string {
	switch c {
	case CellClean:
		return "clean"
	case CellDirty:
		return "dirty"
	case CellObstacle:
		return "obstacle"
	case CellStation:
		return "charging_station"
	default:
		return "unknown"
	}
}

var (
	// ErrOutOfBounds reports a coordinate outside the grid. An accepted
	// action must never carry one; reaching apply with it is a bug.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrNothingToClean reports a clean request on a non-dirty cell.
	// Benign: callers ignore it.
	ErrNothingToClean = errors.New("nothing to clean")
)

// Coord is a (row, col) grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ManhattanTo returns the grid (L1) distance to another coordinate.
func (c Coord) ManhattanTo(o Coord) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

// Neighbors4 returns the four orthogonal neighbors in the fixed scan
// order north, east, south, west. Callers rely on this order for
// deterministic tie-breaking.
func (c Coord) Neighbors4() [4]Coord {
	return [4]Coord{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row, Col: c.Col + 1},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
	}
}

// Less orders coordinates row-major. Used wherever a tie between equal
// distances must resolve the same way on every run.
func (c Coord) Less(o Coord) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Grid is the authoritative environment. It is owned by the simulation;
// agents read cells by coordinate and request a clean at their own
// coordinate only.
type Grid struct {
	Width  int
	Height int

	cells        []Cell // row-major
	initialDirty int
	dirtyLeft    int
	cleanedCount int
}

// NewGrid creates an all-clean grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// InBounds reports whether the coordinate lies within the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Height && c.Col >= 0 && c.Col < g.Width
}

func (g *Grid) index(c Coord) int {
	return c.Row*g.Width + c.Col
}

// CellAt returns the cell state at the coordinate.
func (g *Grid) CellAt(c Coord) (Cell, error) {
	if !g.InBounds(c) {
		return CellClean, fmt.Errorf("cell at %s: %w", c, ErrOutOfBounds)
	}
	return g.cells[g.index(c)], nil
}

// IsTraversable reports whether an agent may occupy the coordinate:
// in bounds and not an obstacle.
func (g *Grid) IsTraversable(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[g.index(c)] != CellObstacle
}

// CleanCell mutates a dirty cell to clean. Cleaning anything else is a
// no-op signalled with ErrNothingToClean; grid state and the cleaned
// counter are untouched.
func (g *Grid) CleanCell(c Coord) error {
	if !g.InBounds(c) {
		return fmt.Errorf("clean %s: %w", c, ErrOutOfBounds)
	}
	i := g.index(c)
	if g.cells[i] != CellDirty {
		return ErrNothingToClean
	}
	g.cells[i] = CellClean
	g.dirtyLeft--
	g.cleanedCount++
	return nil
}

// setCell is generation-time only. Obstacles and stations never change
// after Generate returns.
func (g *Grid) setCell(c Coord, state Cell) {
	i := g.index(c)
	if g.cells[i] == CellDirty {
		g.dirtyLeft--
	}
	if state == CellDirty {
		g.dirtyLeft++
	}
	g.cells[i] = state
}

// DirtyLeft returns the number of dirty cells remaining.
func (g *Grid) DirtyLeft() int { return g.dirtyLeft }

// InitialDirty returns the number of dirty cells at generation time.
func (g *Grid) InitialDirty() int { return g.initialDirty }

// CleanedCount returns how many cells have been cleaned so far.
func (g *Grid) CleanedCount() int { return g.cleanedCount }

// AllClean reports whether no dirty cells remain.
func (g *Grid) AllClean() bool { return g.dirtyLeft == 0 }

// CleanPercent returns the share of the whole grid currently in the
// clean state, 0–100.
func (g *Grid) CleanPercent() float64 {
	clean := 0
	for _, c := range g.cells {
		if c == CellClean {
			clean++
		}
	}
	return float64(clean) / float64(len(g.cells)) * 100
}

// Snapshot returns a copy of all cell states, row-major. Handed to the
// rendering collaborator; mutating it cannot touch the grid.
func (g *Grid) Snapshot() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Stations returns the coordinates of all charging stations, row-major.
func (g *Grid) Stations() []Coord {
	var out []Coord
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if g.cells[row*g.Width+col] == CellStation {
				out = append(out, Coord{Row: row, Col: col})
			}
		}
	}
	return out
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, dirty=%d/%d)", g.Width, g.Height, g.dirtyLeft, g.initialDirty)
}
