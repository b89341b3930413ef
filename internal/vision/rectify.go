// Package vision renders the editor's frames with OpenCV: rectifying the raw
// camera snapshot into the arena's top-down canvas and drawing cell tints,
// grid lines and the header bar on top of it.
package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"layout-editor/internal/overlay"
	"layout-editor/pkg/colorutil"
)

// Rectifier turns raw snapshots into rectified frames using a calibration.
type Rectifier struct {
	cal *overlay.Calibration
}

// NewRectifier creates a rectifier for cal.
func NewRectifier(cal *overlay.Calibration) *Rectifier {
	return &Rectifier{cal: cal}
}

// TransformImage loads the snapshot at path, removes fisheye distortion when
// the calibration has intrinsics, and warps it onto the rectified canvas.
// The returned offset converts image pixels to canvas coordinates. The
// caller owns the returned Mat.
func (r *Rectifier) TransformImage(path string, showGrid bool) (gocv.Mat, overlay.Offset, error) {
	src := gocv.IMRead(path, gocv.IMReadColor)
	if src.Empty() {
		src.Close()
		return gocv.NewMat(), overlay.Offset{}, fmt.Errorf("failed to read image %s", path)
	}
	defer src.Close()

	undistorted := src
	if r.cal.HasFisheye() {
		undistorted = r.undistort(src)
		defer undistorted.Close()
	}

	h := r.cal.Transform()
	extent, err := h.CanvasExtent(undistorted.Cols(), undistorted.Rows())
	if err != nil {
		return gocv.NewMat(), overlay.Offset{}, fmt.Errorf("rectify %s: %w", path, err)
	}
	if extent.Width() <= 0 || extent.Height() <= 0 {
		return gocv.NewMat(), overlay.Offset{}, fmt.Errorf("homography maps %s to an empty canvas", path)
	}
	offset := extent.Offset()

	m := matFromRows(h.Translated(float64(offset.X), float64(offset.Y)).Rows())
	defer m.Close()

	dst := gocv.NewMat()
	gocv.WarpPerspective(undistorted, &dst, m, image.Point{X: extent.Width(), Y: extent.Height()})
	if dst.Empty() {
		dst.Close()
		return gocv.NewMat(), overlay.Offset{}, fmt.Errorf("rectification of %s produced an empty image", path)
	}

	if showGrid {
		b := r.cal.ArenaBounds.Shift(float64(offset.X), float64(offset.Y))
		DrawGrid(&dst, b, r.cal.GridRows, r.cal.GridCols)
	}
	return dst, offset, nil
}

func (r *Rectifier) undistort(src gocv.Mat) gocv.Mat {
	k := matFromRows(r.cal.Camera)
	defer k.Close()
	d := gocv.NewMatWithSize(1, len(r.cal.DistCoeffs), gocv.MatTypeCV64F)
	defer d.Close()
	for i, v := range r.cal.DistCoeffs {
		d.SetDoubleAt(0, i, v)
	}

	dst := gocv.NewMat()
	gocv.FisheyeUndistortImageWithParams(src, &dst, k, d, k, image.Point{X: src.Cols(), Y: src.Rows()})
	return dst
}

// DrawGrid draws the arena outline and cell lines. b is in image pixels.
func DrawGrid(img *gocv.Mat, b overlay.Bounds, rows, cols int) {
	left, top := int(b.Left), int(b.Top)
	right, bottom := int(b.Right), int(b.Bottom)

	for c := 0; c <= cols; c++ {
		x := int(float64(left) + float64(c)*float64(right-left)/float64(cols))
		gocv.Line(img, image.Pt(x, top), image.Pt(x, bottom), colorutil.GridLine, 1)
	}
	for r := 0; r <= rows; r++ {
		y := int(float64(top) + float64(r)*float64(bottom-top)/float64(rows))
		gocv.Line(img, image.Pt(left, y), image.Pt(right, y), colorutil.GridLine, 1)
	}
}

// matFromRows builds a CV_64F Mat from a row-major array.
func matFromRows(rows [][]float64) gocv.Mat {
	m := gocv.NewMatWithSize(len(rows), len(rows[0]), gocv.MatTypeCV64F)
	for i, row := range rows {
		for j, v := range row {
			m.SetDoubleAt(i, j, v)
		}
	}
	return m
}
