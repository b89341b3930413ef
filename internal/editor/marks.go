package editor

import (
	"fmt"
	"image"

	"layout-editor/internal/grid"
)

// CellMark is a non-free cell and its rectangle in image pixels.
type CellMark struct {
	Row, Col int
	State    grid.Cell
	Rect     image.Rectangle
}

// GridRect returns the arena in image pixels, truncated to whole pixels the
// same way the overlay grid lines are.
func (s *Session) GridRect() image.Rectangle {
	b := s.overlay.ArenaBounds()
	return image.Rect(
		int(b.Left-float64(s.offset.X)),
		int(b.Top-float64(s.offset.Y)),
		int(b.Right-float64(s.offset.X)),
		int(b.Bottom-float64(s.offset.Y)),
	)
}

// CellRect returns the image rectangle of cell (row, col).
func (s *Session) CellRect(row, col int) image.Rectangle {
	r := s.GridRect()
	rows, cols := s.grid.Rows(), s.grid.Cols()
	w := float64(r.Dx())
	h := float64(r.Dy())
	return image.Rect(
		int(float64(r.Min.X)+float64(col)*w/float64(cols)),
		int(float64(r.Min.Y)+float64(row)*h/float64(rows)),
		int(float64(r.Min.X)+float64(col+1)*w/float64(cols)),
		int(float64(r.Min.Y)+float64(row+1)*h/float64(rows)),
	)
}

// CellMarks lists every non-free cell in row-major order.
func (s *Session) CellMarks() []CellMark {
	var marks []CellMark
	for r, row := range s.grid {
		for c, v := range row {
			if v == grid.Free {
				continue
			}
			marks = append(marks, CellMark{Row: r, Col: c, State: v, Rect: s.CellRect(r, c)})
		}
	}
	return marks
}

// StatusText summarizes the grid for the header bar.
func (s *Session) StatusText() string {
	return fmt.Sprintf("Grid: %dx%d cells | Obstacles: %d | Home: %d",
		s.grid.Rows(), s.grid.Cols(), s.grid.Count(grid.Obstacle), s.grid.Count(grid.Home))
}

// InstructionText lists the keyboard shortcuts. Hershey fonts are ASCII only.
func (s *Session) InstructionText() string {
	return "Left click: Cycle cells (FREE -> OBSTACLE -> HOME) | 's' Save | 'i' Save image | 'f' Fullscreen | 'q' Quit"
}

// Header returns the text and layout of the header bar for the current
// frame size.
func (s *Session) Header() Header {
	return Header{
		Status:      s.StatusText(),
		Instruction: s.InstructionText(),
		Metrics:     HeaderMetricsFor(s.size.X, s.size.Y),
	}
}
