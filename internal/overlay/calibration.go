// Package overlay holds the camera calibration produced by the GPS overlay
// tooling and the pure geometry built on it: arena bounds, the canvas offset
// of rectified frames, and the lookup from canvas coordinates to grid cells.
package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultCalibrationPath is where the overlay tooling writes its calibration.
const DefaultCalibrationPath = "overlay/gps_overlay.json"

// ErrInvalidCalibration marks a calibration file that parsed but cannot be used.
var ErrInvalidCalibration = errors.New("invalid overlay calibration")

// Bounds is a rectangle in rectified canvas coordinates.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns Right - Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// Empty reports whether the bounds enclose no area.
func (b Bounds) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Contains reports whether (x, y) lies in [Left, Right) x [Top, Bottom).
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.Left && x < b.Right && y >= b.Top && y < b.Bottom
}

// Shift returns the bounds translated by (-dx, -dy), converting canvas
// coordinates to image pixels for a frame with offset (dx, dy).
func (b Bounds) Shift(dx, dy float64) Bounds {
	return Bounds{Left: b.Left - dx, Top: b.Top - dy, Right: b.Right - dx, Bottom: b.Bottom - dy}
}

// Calibration is the on-disk overlay calibration.
type Calibration struct {
	GridRows    int         `json:"grid_rows"`
	GridCols    int         `json:"grid_cols"`
	ArenaBounds Bounds      `json:"arena_bounds"`
	ServerSize  [2]int      `json:"server_size"`
	Camera      [][]float64 `json:"camera_matrix,omitempty"`
	DistCoeffs  []float64   `json:"dist_coeffs,omitempty"`
	Homography  [][]float64 `json:"homography,omitempty"`
}

// HasFisheye reports whether the calibration carries fisheye intrinsics.
func (c *Calibration) HasFisheye() bool {
	return len(c.Camera) == 3 && len(c.DistCoeffs) == 4
}

// Transform returns the calibrated homography, or the identity when the
// calibration has none.
func (c *Calibration) Transform() Homography {
	if c.Homography == nil {
		return Identity()
	}
	h, err := NewHomography(c.Homography)
	if err != nil {
		return Identity()
	}
	return h
}

// Validate checks the fields the editor depends on.
func (c *Calibration) Validate() error {
	if c.GridRows <= 0 || c.GridCols <= 0 {
		return fmt.Errorf("%w: grid is %dx%d", ErrInvalidCalibration, c.GridRows, c.GridCols)
	}
	if c.ArenaBounds.Empty() {
		return fmt.Errorf("%w: empty arena bounds %+v", ErrInvalidCalibration, c.ArenaBounds)
	}
	if len(c.Camera) > 0 && !c.HasFisheye() {
		return fmt.Errorf("%w: camera_matrix needs 3x3 values and dist_coeffs 4", ErrInvalidCalibration)
	}
	for _, row := range c.Camera {
		if len(row) != 3 {
			return fmt.Errorf("%w: camera_matrix rows must have 3 values", ErrInvalidCalibration)
		}
	}
	if c.Homography != nil {
		if _, err := NewHomography(c.Homography); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
		}
	}
	return nil
}

// LoadCalibration reads and validates a calibration file.
func LoadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("GPS overlay configuration not found at %s: %w", path, err)
		}
		return nil, err
	}

	var cal Calibration
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cal, nil
}
