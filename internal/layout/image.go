package layout

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"layout-editor/internal/grid"
	"layout-editor/pkg/colorutil"

	"golang.org/x/image/draw"
)

// cellColor returns the fill used for a raw value in exported images.
func cellColor(v int) color.RGBA {
	switch grid.Cell(v) {
	case grid.Free:
		return colorutil.FreeFill
	case grid.Obstacle:
		return colorutil.ObstacleFill
	case grid.Home:
		return colorutil.HomeFill
	default:
		return colorutil.UnknownFill
	}
}

// Paint renders raw values as a cols x rows image, one pixel per cell.
func Paint(raw [][]int) *image.RGBA {
	info := Summarize(raw)
	img := image.NewRGBA(image.Rect(0, 0, info.Cols, info.Rows))
	for r, row := range raw {
		for c, v := range row {
			if c >= info.Cols {
				break
			}
			img.SetRGBA(c, r, cellColor(v))
		}
	}
	return img
}

// Image returns the grid as an image with each cell drawn as a scale x scale
// block. Returns nil when there is no grid.
func (m *Map) Image(scale int) image.Image {
	raw := m.JSON()
	if len(raw) == 0 || len(raw[0]) == 0 {
		return nil
	}
	if scale < 1 {
		scale = 1
	}
	src := Paint(raw)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	if scale >= minRuledScale {
		ruleCells(dst, scale)
	}
	return dst
}

// minRuledScale is the smallest block size that gets cell separators.
const minRuledScale = 4

// ruleCells darkens the first row and column of every cell block.
func ruleCells(img *image.RGBA, scale int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if x%scale != 0 && y%scale != 0 {
				continue
			}
			img.SetRGBA(x, y, colorutil.Blend(colorutil.Black, img.RGBAAt(x, y), 0.35))
		}
	}
}

// WritePNG writes Image(scale) to path.
func (m *Map) WritePNG(path string, scale int) error {
	img := m.Image(scale)
	if img == nil {
		return fmt.Errorf("no grid data in %s", m.Path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
