package editor

import (
	"layout-editor/internal/grid"
	"layout-editor/internal/layout"
)

// FormatGrid renders g with the colored console symbols, one row per line.
func FormatGrid(g grid.Grid) string {
	return layout.Render(g.Ints(), nil, " ")
}
