package overlay

import "math"

// Offset converts rectified image pixels to canvas coordinates:
// canvas = pixel + offset.
type Offset struct {
	X int `json:"offset_x"`
	Y int `json:"offset_y"`
}

// ToCanvas converts an image pixel position to canvas coordinates.
func (o Offset) ToCanvas(x, y float64) (float64, float64) {
	return x + float64(o.X), y + float64(o.Y)
}

// ToImage converts canvas coordinates to an image pixel position.
func (o Offset) ToImage(x, y float64) (float64, float64) {
	return x - float64(o.X), y - float64(o.Y)
}

// CellInfo is the result of a canvas-to-grid lookup.
type CellInfo struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	InBounds bool `json:"in_bounds"`
}

// GPSOverlay answers grid questions for a loaded calibration.
type GPSOverlay struct {
	cal *Calibration
}

// New wraps a validated calibration.
func New(cal *Calibration) *GPSOverlay {
	return &GPSOverlay{cal: cal}
}

// Load reads the calibration at path and wraps it.
func Load(path string) (*GPSOverlay, error) {
	cal, err := LoadCalibration(path)
	if err != nil {
		return nil, err
	}
	return New(cal), nil
}

// Calibration returns the underlying calibration.
func (o *GPSOverlay) Calibration() *Calibration { return o.cal }

// GridRows returns the number of grid rows in the arena.
func (o *GPSOverlay) GridRows() int { return o.cal.GridRows }

// GridCols returns the number of grid columns in the arena.
func (o *GPSOverlay) GridCols() int { return o.cal.GridCols }

// ArenaBounds returns the arena rectangle in canvas coordinates.
func (o *GPSOverlay) ArenaBounds() Bounds { return o.cal.ArenaBounds }

// ServerSize returns the frame size the calibration was made against.
func (o *GPSOverlay) ServerSize() (width, height int) {
	return o.cal.ServerSize[0], o.cal.ServerSize[1]
}

// GridCellFromRectified maps a canvas point to the grid cell containing it.
func (o *GPSOverlay) GridCellFromRectified(x, y float64) CellInfo {
	b := o.cal.ArenaBounds
	if !b.Contains(x, y) {
		return CellInfo{}
	}
	col := int(math.Floor((x - b.Left) / b.Width() * float64(o.cal.GridCols)))
	row := int(math.Floor((y - b.Top) / b.Height() * float64(o.cal.GridRows)))
	// Guard against rounding at the right and bottom edges.
	col = min(col, o.cal.GridCols-1)
	row = min(row, o.cal.GridRows-1)
	return CellInfo{Row: row, Col: col, InBounds: true}
}

// CellBounds returns the canvas rectangle of cell (row, col), using the same
// division of the arena as the overlay grid lines.
func (o *GPSOverlay) CellBounds(row, col int) Bounds {
	b := o.cal.ArenaBounds
	cw := b.Width() / float64(o.cal.GridCols)
	ch := b.Height() / float64(o.cal.GridRows)
	return Bounds{
		Left:   b.Left + float64(col)*cw,
		Top:    b.Top + float64(row)*ch,
		Right:  b.Left + float64(col+1)*cw,
		Bottom: b.Top + float64(row+1)*ch,
	}
}
