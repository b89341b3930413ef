// Package grid provides the occupancy grid edited by the layout editor and
// its JSON persistence format.
package grid

import "fmt"

// Cell is the state of a single grid cell.
type Cell int

const (
	Free     Cell = 0
	Obstacle Cell = 1
	Home     Cell = 2
)

// States lists the valid cell states in cycle order.
var States = []Cell{Free, Obstacle, Home}

// Next returns the state that follows c in the cycle FREE -> OBSTACLE -> HOME -> FREE.
// Values outside the enum restart the cycle at FREE.
func (c Cell) Next() Cell {
	switch c {
	case Free:
		return Obstacle
	case Obstacle:
		return Home
	default:
		return Free
	}
}

// Valid reports whether c is one of the three known states.
func (c Cell) Valid() bool {
	return c == Free || c == Obstacle || c == Home
}

func (c Cell) String() string {
	switch c {
	case Free:
		return "FREE"
	case Obstacle:
		return "OBSTACLE"
	case Home:
		return "HOME"
	default:
		return fmt.Sprintf("Cell(%d)", int(c))
	}
}

// ParseCell maps a state name (FREE, OBSTACLE, HOME) to its Cell.
func ParseCell(name string) (Cell, error) {
	for _, c := range States {
		if c.String() == name {
			return c, nil
		}
	}
	return Free, fmt.Errorf("unknown cell state %q", name)
}

// Grid is a rectangular rows x cols array of cells, indexed [row][col].
type Grid [][]Cell

// New returns a rows x cols grid with every cell FREE.
func New(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]Cell, cols)
	}
	return g
}

// Seed builds a rows x cols grid and copies in whatever persisted values fit.
// Persisted rows or columns beyond the requested size are dropped; cells the
// persisted data does not cover stay FREE.
func Seed(rows, cols int, persisted Grid) Grid {
	g := New(rows, cols)
	maxRow := min(rows, len(persisted))
	for r := 0; r < maxRow; r++ {
		maxCol := min(cols, len(persisted[r]))
		copy(g[r][:maxCol], persisted[r][:maxCol])
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns (the length of the first row).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Empty reports whether the grid holds no cells.
func (g Grid) Empty() bool {
	return g.Rows() == 0 || g.Cols() == 0
}

// InBounds reports whether (row, col) addresses a cell.
func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g[row])
}

// At returns the cell at (row, col).
func (g Grid) At(row, col int) Cell {
	return g[row][col]
}

// Set stores v at (row, col).
func (g Grid) Set(row, col int, v Cell) {
	g[row][col] = v
}

// Cycle advances the cell at (row, col) to its next state and returns it.
func (g Grid) Cycle(row, col int) Cell {
	next := g[row][col].Next()
	g[row][col] = next
	return next
}

// Count returns how many cells hold the given state.
func (g Grid) Count(state Cell) int {
	n := 0
	for _, row := range g {
		for _, c := range row {
			if c == state {
				n++
			}
		}
	}
	return n
}

// Counts tallies every state present in the grid.
func (g Grid) Counts() map[Cell]int {
	counts := make(map[Cell]int, len(States))
	for _, row := range g {
		for _, c := range row {
			counts[c]++
		}
	}
	return counts
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}

// Ints returns the grid as plain integers, the shape written to disk.
func (g Grid) Ints() [][]int {
	out := make([][]int, len(g))
	for r, row := range g {
		out[r] = make([]int, len(row))
		for c, v := range row {
			out[r][c] = int(v)
		}
	}
	return out
}

// FromInts converts raw integers into a Grid without validating them.
func FromInts(raw [][]int) Grid {
	g := make(Grid, len(raw))
	for r, row := range raw {
		g[r] = make([]Cell, len(row))
		for c, v := range row {
			g[r][c] = Cell(v)
		}
	}
	return g
}

// Validate checks that the grid is rectangular and holds only known states.
func (g Grid) Validate() error {
	cols := g.Cols()
	for r, row := range g {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d cells, want %d", r, len(row), cols)
		}
		for c, v := range row {
			if !v.Valid() {
				return fmt.Errorf("cell (%d, %d) has invalid state %d", r, c, int(v))
			}
		}
	}
	return nil
}
