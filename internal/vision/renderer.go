package vision

import (
	"image"

	"gocv.io/x/gocv"

	"layout-editor/internal/editor"
)

// Renderer draws session state over a fixed rectified frame.
type Renderer struct {
	base gocv.Mat
}

// NewRenderer keeps a private copy of base.
func NewRenderer(base gocv.Mat) *Renderer {
	return &Renderer{base: base.Clone()}
}

// Size returns the frame size in pixels.
func (r *Renderer) Size() image.Point {
	return image.Point{X: r.base.Cols(), Y: r.base.Rows()}
}

// Compose returns the tinted frame with the header above it. The caller owns
// the returned Mat.
func (r *Renderer) Compose(marks []editor.CellMark, header editor.Header) gocv.Mat {
	tinted := DrawCells(r.base, marks)
	defer tinted.Close()
	return DrawHeader(tinted, header)
}

// Render composes the display frame and converts it for the UI.
func (r *Renderer) Render(marks []editor.CellMark, header editor.Header) (image.Image, error) {
	out := r.Compose(marks, header)
	defer out.Close()
	return ToImage(out)
}

// Save writes the tinted frame, without the header, to path.
func (r *Renderer) Save(path string, marks []editor.CellMark) error {
	tinted := DrawCells(r.base, marks)
	defer tinted.Close()
	return SavePNG(path, tinted)
}

// Close releases the frame.
func (r *Renderer) Close() error {
	return r.base.Close()
}
