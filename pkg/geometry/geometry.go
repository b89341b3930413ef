// Package geometry provides the planar point and box types shared by the
// calibration and rendering code.
package geometry

import "math"

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite.
func (p Point2D) IsFinite() bool {
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// Box is an axis-aligned box given by its extreme coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Corners returns the four corners of a w x h rectangle anchored at the
// origin, clockwise from the top-left.
func Corners(w, h float64) []Point2D {
	return []Point2D{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}
