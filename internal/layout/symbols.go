package layout

import "layout-editor/internal/grid"

// Colors holds the ANSI escape sequences used by the default symbols.
var Colors = struct {
	Reset   string
	Gray    string
	Red     string
	Green   string
	Yellow  string
	Magenta string
}{
	Reset:   "\033[0m",
	Gray:    "\033[90m",
	Red:     "\033[91m",
	Green:   "\033[92m",
	Yellow:  "\033[93m",
	Magenta: "\033[95m",
}

// SymbolSet maps a category name (FREE, OBSTACLE, HOME, ...) to the text
// printed for it.
type SymbolSet map[string]string

// Symbol names understood by the layout consumers. FOOD and THREAT are not
// grid states; they are drawn by downstream tools on top of the map.
const (
	NameFree     = "FREE"
	NameObstacle = "OBSTACLE"
	NameHome     = "HOME"
	NameFood     = "FOOD"
	NameThreat   = "THREAT"
)

// UnknownSymbol is rendered for values outside the grid states.
const UnknownSymbol = "?"

var defaultSymbols = SymbolSet{
	NameFree:     Colors.Gray + "." + Colors.Reset,
	NameObstacle: Colors.Red + "#" + Colors.Reset,
	NameHome:     Colors.Green + "H" + Colors.Reset,
	NameFood:     Colors.Yellow + "F" + Colors.Reset,
	NameThreat:   Colors.Magenta + "!" + Colors.Reset,
}

// DefaultSymbols returns a copy of the default, ANSI-colored symbol table.
func DefaultSymbols() SymbolSet {
	out := make(SymbolSet, len(defaultSymbols))
	for k, v := range defaultSymbols {
		out[k] = v
	}
	return out
}

// PlainSymbols returns uncolored symbols for files and non-terminal output.
func PlainSymbols() SymbolSet {
	return SymbolSet{
		NameFree:     ".",
		NameObstacle: "#",
		NameHome:     "H",
		NameFood:     "F",
		NameThreat:   "!",
	}
}

// Symbol returns the default symbol for name, or "" if the name is unknown.
func Symbol(name string) string {
	return defaultSymbols[name]
}

// lookup resolves the symbol for a raw cell value. Names missing from s fall
// back to the defaults.
func (s SymbolSet) lookup(v int) string {
	var name string
	switch grid.Cell(v) {
	case grid.Free:
		name = NameFree
	case grid.Obstacle:
		name = NameObstacle
	case grid.Home:
		name = NameHome
	default:
		return UnknownSymbol
	}
	if sym, ok := s[name]; ok {
		return sym
	}
	return defaultSymbols[name]
}
