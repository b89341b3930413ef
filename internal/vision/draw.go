package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"layout-editor/internal/editor"
	"layout-editor/internal/grid"
	"layout-editor/pkg/colorutil"
)

// cellOpacity is the weight of the tinted copy when blended over the frame.
const cellOpacity = 0.5

func styleFor(state grid.Cell) (colorutil.CellStyle, bool) {
	switch state {
	case grid.Obstacle:
		return colorutil.ObstacleStyle, true
	case grid.Home:
		return colorutil.HomeStyle, true
	}
	return colorutil.CellStyle{}, false
}

// DrawCells returns a copy of frame with obstacle and home cells tinted.
func DrawCells(frame gocv.Mat, marks []editor.CellMark) gocv.Mat {
	tinted := frame.Clone()
	defer tinted.Close()

	for _, m := range marks {
		style, ok := styleFor(m.State)
		if !ok {
			continue
		}
		gocv.Rectangle(&tinted, m.Rect, style.Fill, -1)
		gocv.Rectangle(&tinted, m.Rect, style.Border, style.BorderThickness)
	}

	dst := gocv.NewMat()
	gocv.AddWeighted(tinted, cellOpacity, frame, 1-cellOpacity, 0, &dst)
	return dst
}

// DrawHeader returns a new Mat with the header bar stacked above frame.
func DrawHeader(frame gocv.Mat, header editor.Header) gocv.Mat {
	w, h := frame.Cols(), frame.Rows()
	hm := header.Metrics

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h+hm.Height, w, frame.Type())

	gocv.Rectangle(&out, image.Rect(0, 0, w, hm.Height), colorutil.HeaderBackground, -1)
	gocv.Rectangle(&out, image.Rect(0, hm.Height-1, w, hm.Height), colorutil.HeaderRule, 1)

	gocv.PutTextWithParams(&out, header.Status, image.Pt(hm.PaddingX, hm.StatusY),
		gocv.FontHersheySimplex, hm.StatusScale, colorutil.White, hm.StatusThickness, gocv.LineAA, false)
	gocv.PutTextWithParams(&out, header.Instruction, image.Pt(hm.PaddingX, hm.InstructionY),
		gocv.FontHersheySimplex, hm.InstructionScale, colorutil.White, hm.InstructionThickness, gocv.LineAA, false)

	body := out.Region(image.Rect(0, hm.Height, w, h+hm.Height))
	frame.CopyTo(&body)
	body.Close()

	return out
}

// SavePNG writes img to path.
func SavePNG(path string, img gocv.Mat) error {
	if img.Empty() {
		return fmt.Errorf("refusing to write empty image to %s", path)
	}
	if !gocv.IMWrite(path, img) {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}

// ToImage converts a BGR Mat to an image.Image for display.
func ToImage(img gocv.Mat) (image.Image, error) {
	return img.ToImage()
}
