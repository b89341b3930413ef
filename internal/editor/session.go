// Package editor holds the annotation session: the grid being edited, the
// geometry needed to map clicks onto it, and the events the UI listens to.
package editor

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"sync"

	"layout-editor/internal/grid"
	"layout-editor/internal/overlay"
)

// Overlay is the calibration surface the session needs.
type Overlay interface {
	GridRows() int
	GridCols() int
	ArenaBounds() overlay.Bounds
	GridCellFromRectified(x, y float64) overlay.CellInfo
}

// Renderer composes the annotated frame for the current session state.
// Render includes the header bar; Save writes the frame without it.
type Renderer interface {
	Render(marks []CellMark, header Header) (image.Image, error)
	Save(path string, marks []CellMark) error
}

// EventType identifies session events.
type EventType int

const (
	EventCellChanged EventType = iota
	EventGridSaved
	EventFrameSaved
	EventFullscreenChanged
	EventQuit
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// CellChange is the payload of EventCellChanged.
type CellChange struct {
	Row, Col int
	State    grid.Cell
}

// Action tells the UI what a key press did.
type Action int

const (
	ActionNone Action = iota
	ActionSaved
	ActionFrameSaved
	ActionFullscreen
	ActionQuit
)

// DefaultAnnotatedPath is where the 'i' key writes the annotated frame.
const DefaultAnnotatedPath = "snapshot_rectified_with_grid.png"

// Config carries the paths and startup flags of a session.
type Config struct {
	GridPath      string
	AnnotatedPath string
	Fullscreen    bool
}

// Session owns the grid being edited.
type Session struct {
	mu sync.RWMutex

	grid       grid.Grid
	overlay    Overlay
	offset     overlay.Offset
	size       image.Point
	renderer   Renderer
	cfg        Config
	fullscreen bool

	// Console receives the colored grid snapshot after each edit.
	Console io.Writer

	listeners map[EventType][]EventListener
}

// NewSession seeds a session from persisted cells, clipping them to the
// overlay's grid dimensions. size is the rectified frame size in pixels.
func NewSession(ov Overlay, persisted grid.Grid, offset overlay.Offset, size image.Point, cfg Config) *Session {
	if cfg.GridPath == "" {
		cfg.GridPath = grid.DefaultPath
	}
	if cfg.AnnotatedPath == "" {
		cfg.AnnotatedPath = DefaultAnnotatedPath
	}
	return &Session{
		grid:       grid.Seed(ov.GridRows(), ov.GridCols(), persisted),
		overlay:    ov,
		offset:     offset,
		size:       size,
		cfg:        cfg,
		fullscreen: cfg.Fullscreen,
		Console:    os.Stdout,
		listeners:  make(map[EventType][]EventListener),
	}
}

// SetRenderer attaches the frame renderer used by Frame and the 'i' key.
func (s *Session) SetRenderer(r Renderer) {
	s.renderer = r
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Rows returns the grid row count.
func (s *Session) Rows() int { return s.grid.Rows() }

// Cols returns the grid column count.
func (s *Session) Cols() int { return s.grid.Cols() }

// Grid returns a copy of the current grid.
func (s *Session) Grid() grid.Grid { return s.grid.Clone() }

// Offset returns the canvas offset of the rectified frame.
func (s *Session) Offset() overlay.Offset { return s.offset }

// Size returns the rectified frame size in pixels.
func (s *Session) Size() image.Point { return s.size }

// Fullscreen reports the current fullscreen flag.
func (s *Session) Fullscreen() bool { return s.fullscreen }

// CellAt maps an image pixel to a grid cell. ok is false outside the arena.
func (s *Session) CellAt(x, y float64) (row, col int, ok bool) {
	cx, cy := s.offset.ToCanvas(x, y)
	info := s.overlay.GridCellFromRectified(cx, cy)
	if !info.InBounds || !s.grid.InBounds(info.Row, info.Col) {
		return 0, 0, false
	}
	return info.Row, info.Col, true
}

// HandleClick cycles the cell under image pixel (x, y). Clicks outside the
// arena are ignored. It reports whether a cell changed.
func (s *Session) HandleClick(x, y float64) bool {
	row, col, ok := s.CellAt(x, y)
	if !ok {
		return false
	}
	next := s.grid.Cycle(row, col)
	log.Printf("[update] cell (%d, %d) -> %s", row, col, next)
	if s.Console != nil {
		fmt.Fprintln(s.Console, FormatGrid(s.grid))
	}
	s.Emit(EventCellChanged, CellChange{Row: row, Col: col, State: next})
	return true
}

// HandleKey dispatches a keyboard shortcut. Unknown keys return ActionNone.
func (s *Session) HandleKey(r rune) (Action, error) {
	switch r {
	case 's':
		if err := s.Save(); err != nil {
			return ActionNone, err
		}
		return ActionSaved, nil
	case 'i':
		if err := s.SaveFrame(); err != nil {
			return ActionNone, err
		}
		return ActionFrameSaved, nil
	case 'f':
		s.ToggleFullscreen()
		return ActionFullscreen, nil
	case 'q':
		s.Emit(EventQuit, nil)
		return ActionQuit, nil
	}
	return ActionNone, nil
}

// Save writes the grid to the configured path.
func (s *Session) Save() error {
	if err := grid.Save(s.grid, s.cfg.GridPath); err != nil {
		return fmt.Errorf("failed to save grid: %w", err)
	}
	log.Printf("Saved grid to %s", s.cfg.GridPath)
	s.Emit(EventGridSaved, s.cfg.GridPath)
	return nil
}

// SaveFrame writes the frame with its cell overlays as a PNG.
func (s *Session) SaveFrame() error {
	if s.renderer == nil {
		return fmt.Errorf("no frame renderer attached")
	}
	if err := s.renderer.Save(s.cfg.AnnotatedPath, s.CellMarks()); err != nil {
		return fmt.Errorf("failed to save annotated frame: %w", err)
	}
	log.Printf("Saved annotated frame to %s", s.cfg.AnnotatedPath)
	s.Emit(EventFrameSaved, s.cfg.AnnotatedPath)
	return nil
}

// Frame renders the annotated frame for display.
func (s *Session) Frame() (image.Image, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("no frame renderer attached")
	}
	return s.renderer.Render(s.CellMarks(), s.Header())
}

// ToggleFullscreen flips the fullscreen flag and emits the new value.
func (s *Session) ToggleFullscreen() {
	s.fullscreen = !s.fullscreen
	s.Emit(EventFullscreenChanged, s.fullscreen)
}
