package vision

import (
	"image"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"layout-editor/internal/editor"
	"layout-editor/internal/grid"
	"layout-editor/internal/overlay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayFrame(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 100, 100, 0), h, w, gocv.MatTypeCV8UC3)
}

func TestDrawCellsTintsMarkedCells(t *testing.T) {
	frame := grayFrame(200, 100)
	defer frame.Close()

	out := DrawCells(frame, []editor.CellMark{
		{Row: 0, Col: 0, State: grid.Obstacle, Rect: image.Rect(10, 10, 60, 60)},
		{Row: 0, Col: 1, State: grid.Free, Rect: image.Rect(100, 10, 150, 60)},
	})
	defer out.Close()

	require.Equal(t, 200, out.Cols())
	require.Equal(t, 100, out.Rows())

	// BGR at the obstacle centre: 50/50 of (0,0,100) and (100,100,100)
	assert.Equal(t, uint8(50), out.GetVecbAt(35, 35)[0])
	assert.Equal(t, uint8(100), out.GetVecbAt(35, 35)[2])
	// free cells are untouched
	assert.Equal(t, uint8(100), out.GetVecbAt(35, 125)[0])
}

func TestDrawHeaderStacksAboveFrame(t *testing.T) {
	frame := grayFrame(640, 480)
	defer frame.Close()

	header := editor.Header{
		Status:      "Grid: 2x2 cells | Obstacles: 0 | Home: 0",
		Instruction: "q quits",
		Metrics:     editor.HeaderMetricsFor(640, 480),
	}
	out := DrawHeader(frame, header)
	defer out.Close()

	assert.Equal(t, 640, out.Cols())
	assert.Equal(t, 480+80, out.Rows())
	assert.Equal(t, uint8(40), out.GetVecbAt(2, 630)[0], "header background")
	assert.Equal(t, uint8(100), out.GetVecbAt(300, 300)[0], "frame copied below header")
}

func TestRendererSaveAndRender(t *testing.T) {
	frame := grayFrame(320, 240)
	r := NewRenderer(frame)
	frame.Close()
	defer r.Close()

	assert.Equal(t, image.Pt(320, 240), r.Size())

	path := filepath.Join(t.TempDir(), "annotated.png")
	require.NoError(t, r.Save(path, nil))
	saved := gocv.IMRead(path, gocv.IMReadColor)
	defer saved.Close()
	assert.Equal(t, 240, saved.Rows(), "saved frame has no header")

	img, err := r.Render(nil, editor.Header{Metrics: editor.HeaderMetricsFor(320, 240)})
	require.NoError(t, err)
	assert.Equal(t, 240+80, img.Bounds().Dy())
}

func TestDrawGridAndShiftedBounds(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	b := overlay.Bounds{Left: 20, Top: 20, Right: 100, Bottom: 100}.Shift(10, 10)
	DrawGrid(&frame, b, 2, 2)

	// green line at x = 10 + 40 = 50
	assert.Equal(t, uint8(255), frame.GetVecbAt(30, 50)[1])
	assert.Equal(t, uint8(0), frame.GetVecbAt(30, 49)[1])
}

func TestSavePNGRejectsEmpty(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	assert.Error(t, SavePNG(filepath.Join(t.TempDir(), "x.png"), empty))
}
