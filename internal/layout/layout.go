// Package layout is a read-only query API over the occupancy grid file
// written by the editor. Every call re-reads the file, so results always
// reflect what is on disk at call time; a missing or unreadable file yields
// empty results rather than an error.
package layout

import (
	"log"
	"math"
	"strings"

	"layout-editor/internal/grid"
)

// Map reads the grid file at Path.
type Map struct {
	Path string
}

// New returns a Map over the grid file at path. An empty path selects
// grid.DefaultPath.
func New(path string) *Map {
	if path == "" {
		path = grid.DefaultPath
	}
	return &Map{Path: path}
}

// Info summarizes the grid contents.
type Info struct {
	Rows            int     `json:"rows"`
	Cols            int     `json:"cols"`
	TotalCells      int     `json:"total_cells"`
	FreeCount       int     `json:"free_count"`
	ObstacleCount   int     `json:"obstacle_count"`
	HomeCount       int     `json:"home_count"`
	FreePercent     float64 `json:"free_percent"`
	ObstaclePercent float64 `json:"obstacle_percent"`
	HomePercent     float64 `json:"home_percent"`
}

// JSON returns the raw integer grid, or nil if the file is missing or corrupt.
func (m *Map) JSON() [][]int {
	raw, err := grid.ReadRaw(m.Path)
	if err != nil {
		log.Printf("layout: %v", err)
		return nil
	}
	return raw
}

// Symbols returns the grid with each value replaced by its symbol. A nil set
// uses DefaultSymbols.
func (m *Map) Symbols(symbols SymbolSet) [][]string {
	raw := m.JSON()
	if len(raw) == 0 {
		return nil
	}
	if symbols == nil {
		symbols = defaultSymbols
	}
	out := make([][]string, len(raw))
	for r, row := range raw {
		out[r] = make([]string, len(row))
		for c, v := range row {
			out[r][c] = symbols.lookup(v)
		}
	}
	return out
}

// String renders the grid one row per line with cells joined by sep.
// Returns "" when there is no grid.
func (m *Map) String(symbols SymbolSet, sep string) string {
	return Render(m.JSON(), symbols, sep)
}

// Info reports dimensions, per-state counts and percentages.
func (m *Map) Info() Info {
	return Summarize(m.JSON())
}

// Render formats raw grid values with the given symbols. A nil set uses
// DefaultSymbols.
func Render(raw [][]int, symbols SymbolSet, sep string) string {
	if len(raw) == 0 {
		return ""
	}
	if symbols == nil {
		symbols = defaultSymbols
	}
	var b strings.Builder
	for r, row := range raw {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, v := range row {
			if c > 0 {
				b.WriteString(sep)
			}
			b.WriteString(symbols.lookup(v))
		}
	}
	return b.String()
}

// Summarize computes Info for raw grid values. Cols is the length of the
// first row; TotalCells counts every cell actually present.
func Summarize(raw [][]int) Info {
	var info Info
	info.Rows = len(raw)
	if info.Rows > 0 {
		info.Cols = len(raw[0])
	}
	for _, row := range raw {
		for _, v := range row {
			info.TotalCells++
			switch grid.Cell(v) {
			case grid.Free:
				info.FreeCount++
			case grid.Obstacle:
				info.ObstacleCount++
			case grid.Home:
				info.HomeCount++
			}
		}
	}
	info.FreePercent = percent(info.FreeCount, info.TotalCells)
	info.ObstaclePercent = percent(info.ObstacleCount, info.TotalCells)
	info.HomePercent = percent(info.HomeCount, info.TotalCells)
	return info
}

// percent returns n/total as a percentage rounded to one decimal place.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
