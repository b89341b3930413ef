// Package main provides the entry point for the layout editor.
package main

import (
	"context"
	"log"
	"time"

	"layout-editor/internal/app"
	"layout-editor/internal/camera"
	"layout-editor/internal/editor"
	"layout-editor/internal/grid"
	"layout-editor/internal/overlay"
	"layout-editor/internal/version"
	"layout-editor/internal/vision"
	"layout-editor/ui/mainwindow"
	"layout-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"gocv.io/x/gocv"
)

const (
	appID          = "io.github.layout-editor"
	reloadInterval = 2 * time.Second
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting layout editor %s", version.String())

	cfg, err := app.LoadConfig(app.Options{})
	if err != nil {
		log.Fatalf("%v", err)
	}

	ov, err := overlay.Load(cfg.Paths.Calibration)
	if err != nil {
		log.Fatalf("%v. Please ensure gps_overlay.json exists in the overlay/ folder.", err)
	}

	persisted, err := grid.Load(cfg.Paths.Grid)
	if err != nil {
		log.Printf("Warning: %v; starting with an empty grid", err)
		persisted = nil
	}

	frame, offset := rectifiedFrame(cfg, ov)
	defer frame.Close()

	renderer := vision.NewRenderer(frame)
	defer renderer.Close()

	uiPrefs := prefs.Load()
	session := editor.NewSession(ov, persisted, offset, renderer.Size(), editor.Config{
		GridPath:      cfg.Paths.Grid,
		AnnotatedPath: cfg.Paths.Annotated,
		Fullscreen:    uiPrefs.Bool(prefs.KeyFullscreen, cfg.Editor.Fullscreen),
	})
	session.SetRenderer(renderer)

	log.Printf("Grid dimensions: %d rows x %d cols", session.Rows(), session.Cols())
	log.Printf("Rectified frame size: %d x %d", renderer.Size().X, renderer.Size().Y)
	log.Println(session.InstructionText())
	log.Printf("Snapshot is cached at %s; delete it to fetch a fresh image from the camera.", cfg.Paths.Snapshot)

	if err := session.SaveFrame(); err != nil {
		log.Printf("Warning: %v", err)
	}

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.EditorTheme{})

	win := mainwindow.New(a, session, uiPrefs)
	setupCalibrationReload(win, cfg.Paths.Calibration)

	win.ShowAndRun()
}

// rectifiedFrame loads or fetches the raw snapshot and rectifies it. Any
// failure here is fatal.
func rectifiedFrame(cfg *app.Config, ov *overlay.GPSOverlay) (gocv.Mat, overlay.Offset) {
	cache := camera.NewCache(cfg.Paths.Snapshot, cfg.Camera.CameraClient())
	path, _, err := cache.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to obtain snapshot: %v", err)
	}

	sw, sh := ov.ServerSize()
	log.Printf("Expected server size: %d x %d", sw, sh)

	log.Println("Applying rectification using overlay calibration...")
	frame, offset, err := vision.NewRectifier(ov.Calibration()).TransformImage(path, cfg.Editor.ShowGrid)
	if err != nil {
		log.Fatalf("Rectification failed: %v", err)
	}
	log.Printf("Rectified output size: %d x %d, offset (%d, %d)", frame.Cols(), frame.Rows(), offset.X, offset.Y)

	if err := vision.SavePNG(cfg.Paths.Rectified, frame); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		log.Printf("Saved rectified image to %s", cfg.Paths.Rectified)
	}
	return frame, offset
}

// setupCalibrationReload offers a restart when the calibration file changes.
func setupCalibrationReload(win *mainwindow.MainWindow, path string) {
	watcher := app.NewCalibrationWatcher(path, reloadInterval)
	if watcher == nil {
		log.Printf("Calibration reload: unable to stat %s", path)
		return
	}

	watcher.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	watcher.OnChange(func() {
		log.Printf("Calibration reload: %s changed", watcher.Path())
		win.ShowCalibrationChanged(func() {
			if err := app.Restart(); err != nil {
				log.Printf("Calibration reload: restart failed: %v", err)
			}
		}, func() {
			watcher.ResetBaseline()
			if err := watcher.Start(); err != nil {
				log.Printf("Calibration reload: %v", err)
			}
		})
	})

	if err := watcher.Start(); err != nil {
		log.Printf("Calibration reload: %v", err)
	}
}
