// Package colorutil provides shared color definitions for the layout editor.
package colorutil

import "image/color"

// Common overlay colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	HeaderBackground = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	HeaderRule       = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	GridLine         = color.RGBA{R: 0, G: 255, B: 0, A: 255}

	FreeFill       = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	ObstacleFill   = color.RGBA{R: 100, G: 0, B: 0, A: 255}
	ObstacleBorder = Black
	HomeFill       = color.RGBA{R: 255, G: 150, B: 0, A: 255}
	HomeBorder     = color.RGBA{R: 255, G: 100, B: 0, A: 255}
	UnknownFill    = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// CellStyle describes how a marked cell is painted on the rectified frame.
type CellStyle struct {
	Fill            color.RGBA
	Border          color.RGBA
	BorderThickness int
}

// Obstacle and Home cell styles. FREE cells are never painted.
var (
	ObstacleStyle = CellStyle{Fill: ObstacleFill, Border: ObstacleBorder, BorderThickness: 2}
	HomeStyle     = CellStyle{Fill: HomeFill, Border: HomeBorder, BorderThickness: 3}
)

// Blend mixes a and b with weight alpha for a (0.0 - 1.0).
func Blend(a, b color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	inv := 1 - alpha
	return color.RGBA{
		R: uint8(float64(a.R)*alpha + float64(b.R)*inv + 0.5),
		G: uint8(float64(a.G)*alpha + float64(b.G)*inv + 0.5),
		B: uint8(float64(a.B)*alpha + float64(b.B)*inv + 0.5),
		A: 255,
	}
}
