package grid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultPath is where the editor reads and writes the grid when no other
// path is configured.
const DefaultPath = "grid.json"

// ErrCorrupt marks a grid file that exists but cannot be used.
var ErrCorrupt = errors.New("corrupt grid file")

// ReadRaw reads the file as an array of integer arrays. A missing file returns
// nil with no error.
func ReadRaw(path string) ([][]int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw [][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCorrupt, path, err)
	}
	return raw, nil
}

// Load reads a grid from path. A missing file yields an empty grid. Files that
// do not parse, or that hold values other than FREE, OBSTACLE and HOME, return
// an error wrapping ErrCorrupt.
func Load(path string) (Grid, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return Grid{}, err
	}
	g := FromInts(raw)
	for r, row := range g {
		for c, v := range row {
			if !v.Valid() {
				return Grid{}, fmt.Errorf("%w %s: cell (%d, %d) = %d", ErrCorrupt, path, r, c, int(v))
			}
		}
	}
	return g, nil
}

// Save writes g to path as nested integer arrays, one row per line,
// overwriting any existing file. The parent directory must already exist.
func Save(g Grid, path string) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes g in the on-disk format.
func Marshal(g Grid) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[")
	for r, row := range g.Ints() {
		if r > 0 {
			buf.WriteString(",")
		}
		line, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(line)
	}
	if len(g) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}
