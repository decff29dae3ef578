package world

import (
	"fmt"
	"strings"
)

// ParseRows builds a grid from an ASCII layout, one string per row:
// '.' clean, 'D' dirty, '#' obstacle, 'C' charging station. Used for
// hand-authored room layouts and test fixtures.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse layout: no rows")
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows))

	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parse layout: row %d has %d cells, want %d", r, len(row), width)
		}
		for c, ch := range strings.Split(row, "") {
			coord := Coord{Row: r, Col: c}
			switch ch {
			case ".":
				g.setCell(coord, CellClean)
			case "D":
				g.setCell(coord, CellDirty)
			case "#":
				g.setCell(coord, CellObstacle)
			case "C":
				g.setCell(coord, CellStation)
			default:
				return nil, fmt.Errorf("parse layout: unknown cell %q at %s", ch, coord)
			}
		}
	}

	g.initialDirty = g.dirtyLeft
	return g, nil
}
