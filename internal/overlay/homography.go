package overlay

import (
	"errors"
	"fmt"
	"math"

	"layout-editor/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Point is a 2D point in image or canvas coordinates.
type Point = geometry.Point2D

// Homography is a 3x3 projective transform from undistorted camera pixels to
// rectified canvas coordinates.
type Homography struct {
	m *mat.Dense
}

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{m: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})}
}

// NewHomography builds a transform from a row-major 3x3 array.
func NewHomography(rows [][]float64) (Homography, error) {
	if len(rows) != 3 {
		return Homography{}, fmt.Errorf("homography needs 3 rows, got %d", len(rows))
	}
	data := make([]float64, 0, 9)
	for i, row := range rows {
		if len(row) != 3 {
			return Homography{}, fmt.Errorf("homography row %d has %d values, want 3", i, len(row))
		}
		data = append(data, row...)
	}
	m := mat.NewDense(3, 3, data)
	if math.Abs(mat.Det(m)) < 1e-12 {
		return Homography{}, fmt.Errorf("homography is singular")
	}
	return Homography{m: m}, nil
}

// Apply maps p through the transform. Points on the vanishing line map to
// +Inf.
func (h Homography) Apply(p Point) Point {
	q, _ := h.project(p)
	return q
}

// project maps p and reports whether it lands in front of the camera, i.e.
// with a positive homogeneous weight.
func (h Homography) project(p Point) (Point, bool) {
	src := mat.NewVecDense(3, []float64{p.X, p.Y, 1})
	var dst mat.VecDense
	dst.MulVec(h.m, src)
	w := dst.AtVec(2)
	if w == 0 {
		return Point{X: math.Inf(1), Y: math.Inf(1)}, false
	}
	return Point{X: dst.AtVec(0) / w, Y: dst.AtVec(1) / w}, w > 0
}

// Translated returns the transform followed by a shift of (-dx, -dy), which
// maps into image pixels of a canvas whose origin sits at (dx, dy).
func (h Homography) Translated(dx, dy float64) Homography {
	t := mat.NewDense(3, 3, []float64{1, 0, -dx, 0, 1, -dy, 0, 0, 1})
	var out mat.Dense
	out.Mul(t, h.m)
	return Homography{m: &out}
}

// Rows returns the transform as a row-major 3x3 array.
func (h Homography) Rows() [][]float64 {
	out := make([][]float64, 3)
	for i := range out {
		out[i] = mat.Row(nil, i, h.m)
	}
	return out
}

// Extent is the axis-aligned box covered by a warped image in canvas space.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the canvas width in whole pixels, measured from the
// floored origin so the right edge is never cut off.
func (e Extent) Width() int { return int(math.Ceil(e.MaxX) - math.Floor(e.MinX)) }

// Height returns the canvas height in whole pixels.
func (e Extent) Height() int { return int(math.Ceil(e.MaxY) - math.Floor(e.MinY)) }

// Offset returns the canvas offset of the warped image's top-left pixel.
func (e Extent) Offset() Offset {
	return Offset{X: int(math.Floor(e.MinX)), Y: int(math.Floor(e.MinY))}
}

// ErrUnboundedExtent is returned when an image corner projects to infinity
// or behind the camera, so the warped image has no finite canvas.
var ErrUnboundedExtent = errors.New("homography maps the image to an unbounded canvas")

// CanvasExtent projects the corners of a width x height image and returns
// their bounding box.
func (h Homography) CanvasExtent(width, height int) (Extent, error) {
	corners := geometry.Corners(float64(width), float64(height))
	for i, c := range corners {
		p, ok := h.project(c)
		if !ok || !p.IsFinite() {
			return Extent{}, fmt.Errorf("%w: corner (%g, %g)", ErrUnboundedExtent, c.X, c.Y)
		}
		corners[i] = p
	}
	b := geometry.BoundingBox(corners)
	return Extent{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}, nil
}
