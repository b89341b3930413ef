// Package mainwindow provides the editor window.
package mainwindow

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"layout-editor/internal/editor"
	"layout-editor/internal/version"
	"layout-editor/ui/canvas"
	"layout-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Layout Editor (Rectified)"

// MainWindow is the editor window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	session   *editor.Session
	prefs     *prefs.Prefs
	canvas    *canvas.ImageCanvas
	statusBar *widget.Label

	fitToWindowItem *fyne.MenuItem
	fullscreenItem  *fyne.MenuItem
}

// New creates the editor window for session.
func New(fyneApp fyne.App, session *editor.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()
	mw.restoreWindow()

	return mw
}

func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas()
	mw.canvas.OnLeftClick(func(x, y float64) {
		mw.session.HandleClick(x, y)
	})
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("%s | Zoom %.0f%%", mw.session.StatusText(), zoom*100))
	})

	mw.statusBar = widget.NewLabel(mw.session.StatusText())

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
	mw.Redraw()
	mw.canvas.SetFitToWindow(true)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		mw.keyItem("Save Grid", 's'),
		mw.keyItem("Save Image", 'i'),
		fyne.NewMenuItemSeparator(),
		mw.keyItem("Quit", 'q'),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("Fit to Window", mw.onToggleFitToWindow)
	mw.fitToWindowItem.Checked = true
	mw.fullscreenItem = mw.keyItem("Fullscreen", 'f')

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		mw.fullscreenItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// keyItem builds a menu item that dispatches key r and shows it as the
// item's shortcut. The key itself arrives through the canvas rune handler.
func (mw *MainWindow) keyItem(label string, r rune) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, func() { mw.dispatch(r) })
	item.Shortcut = keyShortcut(r)
	return item
}

// keyShortcut describes an unmodified letter key.
func keyShortcut(r rune) *desktop.CustomShortcut {
	return &desktop.CustomShortcut{KeyName: fyne.KeyName(strings.ToUpper(string(r)))}
}

func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedRune(mw.dispatch)
}

// dispatch forwards a shortcut to the session and reports failures.
func (mw *MainWindow) dispatch(r rune) {
	if _, err := mw.session.HandleKey(r); err != nil {
		log.Printf("%c: %v", r, err)
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(editor.EventCellChanged, func(data interface{}) {
		mw.Redraw()
		if ch, ok := data.(editor.CellChange); ok {
			mw.updateStatus(fmt.Sprintf("%s | cell (%d, %d) -> %s", mw.session.StatusText(), ch.Row, ch.Col, ch.State))
		}
	})
	mw.session.On(editor.EventGridSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			mw.updateStatus("Grid saved to " + abs)
		}
	})
	mw.session.On(editor.EventFrameSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Image with grid and overlays saved to " + path)
		}
	})
	mw.session.On(editor.EventFullscreenChanged, func(data interface{}) {
		full, ok := data.(bool)
		if !ok {
			return
		}
		mw.SetFullScreen(full)
		mw.fullscreenItem.Checked = full
		mw.MainMenu().Refresh()
		mw.prefs.SetBool(prefs.KeyFullscreen, full)
		if full {
			mw.updateStatus("Fullscreen mode")
		} else {
			mw.updateStatus("Windowed mode")
		}
	})
	mw.session.On(editor.EventQuit, func(interface{}) {
		log.Println("Quitting editor. Goodbye!")
		mw.SavePreferences()
		mw.app.Quit()
	})

	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.Close()
	})
}

func (mw *MainWindow) restoreWindow() {
	w := mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1280)
	h := mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	full := mw.session.Fullscreen()
	mw.SetFullScreen(full)
	mw.fullscreenItem.Checked = full
}

// Redraw re-renders the session frame into the canvas.
func (mw *MainWindow) Redraw() {
	img, err := mw.session.Frame()
	if err != nil {
		log.Printf("render failed: %v", err)
		return
	}
	mw.canvas.SetImage(img, image.Pt(0, mw.session.Header().Metrics.Height))
	mw.canvas.Refresh()
}

// SavePreferences stores the window state.
func (mw *MainWindow) SavePreferences() {
	if !mw.FullScreen() {
		size := mw.Canvas().Size()
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	mw.SavePreferencesIfChanged()
}

// SavePreferencesIfChanged writes preferences when any were updated.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.FitsToWindow()
	mw.canvas.SetFitToWindow(enabled)
	mw.fitToWindowItem.Checked = enabled
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.FitsToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Checked = false
		mw.MainMenu().Refresh()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("Layout Editor %s\n\nMark arena cells as free, obstacle or home.\n%s",
			version.String(), mw.session.InstructionText()),
		mw.Window)
}

// ShowCalibrationChanged asks whether to restart after the calibration file
// was rewritten. restart runs only when the operator agrees.
func (mw *MainWindow) ShowCalibrationChanged(restart func(), declined func()) {
	dialog.ShowConfirm("Calibration Updated",
		"The overlay calibration has changed.\nUnsaved grid edits will be lost. Restart now?",
		func(ok bool) {
			if ok {
				mw.SavePreferences()
				restart()
				return
			}
			declined()
		}, mw.Window)
}
