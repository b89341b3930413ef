package editor

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"layout-editor/internal/grid"
	"layout-editor/internal/layout"
	"layout-editor/internal/overlay"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arena: 4 rows x 5 cols over canvas [100,600) x [50,450); frame offset
// (-20, 10) so image pixel = canvas - offset.
func testOverlay() *overlay.GPSOverlay {
	return overlay.New(&overlay.Calibration{
		GridRows:    4,
		GridCols:    5,
		ArenaBounds: overlay.Bounds{Left: 100, Top: 50, Right: 600, Bottom: 450},
	})
}

func newTestSession(t *testing.T, persisted grid.Grid) *Session {
	t.Helper()
	dir := t.TempDir()
	s := NewSession(testOverlay(), persisted, overlay.Offset{X: -20, Y: 10}, image.Pt(700, 500), Config{
		GridPath:      filepath.Join(dir, "grid.json"),
		AnnotatedPath: filepath.Join(dir, "annotated.png"),
	})
	s.Console = &bytes.Buffer{}
	return s
}

type fakeRenderer struct {
	saved  string
	marks  []CellMark
	header Header
	err    error
}

func (f *fakeRenderer) Render(marks []CellMark, header Header) (image.Image, error) {
	f.marks, f.header = marks, header
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), f.err
}

func (f *fakeRenderer) Save(path string, marks []CellMark) error {
	f.saved, f.marks = path, marks
	return f.err
}

func TestNewSessionSeedsFromOverlay(t *testing.T) {
	s := newTestSession(t, grid.Grid{{grid.Home, grid.Obstacle, grid.Free, grid.Free, grid.Free, grid.Obstacle}})

	assert.Equal(t, 4, s.Rows())
	assert.Equal(t, 5, s.Cols())
	assert.Equal(t, grid.Home, s.Grid().At(0, 0))
	assert.Equal(t, 1, s.Grid().Count(grid.Obstacle), "sixth column is clipped")
}

func TestHandleClickCyclesCell(t *testing.T) {
	s := newTestSession(t, nil)
	var changes []CellChange
	s.On(EventCellChanged, func(data interface{}) {
		changes = append(changes, data.(CellChange))
	})

	// image (130, 40) -> canvas (110, 50) -> cell (0, 0)
	require.True(t, s.HandleClick(130, 40))
	require.True(t, s.HandleClick(130, 40))
	require.True(t, s.HandleClick(130, 40))

	assert.Equal(t, []CellChange{
		{Row: 0, Col: 0, State: grid.Obstacle},
		{Row: 0, Col: 0, State: grid.Home},
		{Row: 0, Col: 0, State: grid.Free},
	}, changes)
	assert.Contains(t, s.Console.(*bytes.Buffer).String(), layout.Colors.Red)
}

func TestHandleClickOutsideArena(t *testing.T) {
	s := newTestSession(t, nil)
	fired := false
	s.On(EventCellChanged, func(interface{}) { fired = true })

	assert.False(t, s.HandleClick(0, 0))
	assert.False(t, s.HandleClick(620, 200), "canvas x 600 is the excluded right edge")
	assert.False(t, fired)
	assert.Equal(t, 0, s.Grid().Count(grid.Obstacle))
}

func TestCellAtUsesOffset(t *testing.T) {
	s := newTestSession(t, nil)

	row, col, ok := s.CellAt(619, 429) // canvas (599, 439)
	require.True(t, ok)
	assert.Equal(t, 3, row)
	assert.Equal(t, 4, col)
}

func TestHandleKeySave(t *testing.T) {
	s := newTestSession(t, nil)
	s.HandleClick(130, 40)
	var savedTo string
	s.On(EventGridSaved, func(data interface{}) { savedTo = data.(string) })

	action, err := s.HandleKey('s')
	require.NoError(t, err)
	assert.Equal(t, ActionSaved, action)
	assert.Equal(t, s.cfg.GridPath, savedTo)

	loaded, err := grid.Load(s.cfg.GridPath)
	require.NoError(t, err)
	if diff := cmp.Diff(s.Grid(), loaded); diff != "" {
		t.Errorf("saved grid mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleKeySaveFailure(t *testing.T) {
	s := newTestSession(t, nil)
	s.cfg.GridPath = filepath.Join(t.TempDir(), "missing", "grid.json")

	action, err := s.HandleKey('s')
	assert.Error(t, err)
	assert.Equal(t, ActionNone, action)
}

func TestHandleKeySaveFrame(t *testing.T) {
	s := newTestSession(t, nil)
	r := &fakeRenderer{}
	s.SetRenderer(r)
	s.HandleClick(130, 40)

	action, err := s.HandleKey('i')
	require.NoError(t, err)
	assert.Equal(t, ActionFrameSaved, action)
	assert.Equal(t, s.cfg.AnnotatedPath, r.saved)
	require.Len(t, r.marks, 1)
	assert.Equal(t, grid.Obstacle, r.marks[0].State)

	_, err = s.Frame()
	require.NoError(t, err)
	assert.Equal(t, "Grid: 4x5 cells | Obstacles: 1 | Home: 0", r.header.Status)
	assert.Equal(t, 80, r.header.Metrics.Height)

	r.err = errors.New("disk full")
	_, err = s.HandleKey('i')
	assert.ErrorContains(t, err, "disk full")
}

func TestHandleKeyFullscreenAndQuit(t *testing.T) {
	s := newTestSession(t, nil)
	var states []bool
	s.On(EventFullscreenChanged, func(data interface{}) { states = append(states, data.(bool)) })
	quit := false
	s.On(EventQuit, func(interface{}) { quit = true })

	a, _ := s.HandleKey('f')
	assert.Equal(t, ActionFullscreen, a)
	s.HandleKey('f')
	assert.Equal(t, []bool{true, false}, states)

	a, _ = s.HandleKey('q')
	assert.Equal(t, ActionQuit, a)
	assert.True(t, quit)

	a, err := s.HandleKey('x')
	assert.NoError(t, err)
	assert.Equal(t, ActionNone, a)
}

func TestCellMarks(t *testing.T) {
	s := newTestSession(t, grid.Grid{
		{grid.Obstacle, grid.Free},
		{grid.Free, grid.Home},
	})

	// arena in image pixels: (120, 40)-(620, 440), cells 100x100
	assert.Equal(t, image.Rect(120, 40, 620, 440), s.GridRect())
	assert.Equal(t, []CellMark{
		{Row: 0, Col: 0, State: grid.Obstacle, Rect: image.Rect(120, 40, 220, 140)},
		{Row: 1, Col: 1, State: grid.Home, Rect: image.Rect(220, 140, 320, 240)},
	}, s.CellMarks())
}

func TestStatusText(t *testing.T) {
	s := newTestSession(t, grid.Grid{{grid.Obstacle, grid.Obstacle, grid.Home}})
	assert.Equal(t, "Grid: 4x5 cells | Obstacles: 2 | Home: 1", s.StatusText())
	assert.Contains(t, s.InstructionText(), "'q' Quit")
}

func TestFrameWithoutRenderer(t *testing.T) {
	s := newTestSession(t, nil)
	_, err := s.Frame()
	assert.Error(t, err)
}

func TestFormatGrid(t *testing.T) {
	got := FormatGrid(grid.Grid{{grid.Free, grid.Home}})
	c := layout.Colors
	assert.Equal(t, c.Gray+"."+c.Reset+" "+c.Green+"H"+c.Reset, got)
}
