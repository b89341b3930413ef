// Package app wires process-level concerns: settings and the fyne theme.
package app

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"layout-editor/internal/camera"
	"layout-editor/internal/editor"
	"layout-editor/internal/grid"
	"layout-editor/internal/overlay"
)

// EnvPrefix is prepended to every environment override, e.g.
// LAYOUT_CAMERA_IP for camera.ip.
const EnvPrefix = "LAYOUT"

// CameraConfig addresses the Axis camera.
type CameraConfig struct {
	IP         string        `mapstructure:"ip"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	Resolution string        `mapstructure:"resolution"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// PathsConfig lists the files the editor reads and writes.
type PathsConfig struct {
	Grid        string `mapstructure:"grid"`
	Calibration string `mapstructure:"calibration"`
	Snapshot    string `mapstructure:"snapshot"`
	Rectified   string `mapstructure:"rectified"`
	Annotated   string `mapstructure:"annotated"`
}

// EditorConfig holds startup display options.
type EditorConfig struct {
	ShowGrid   bool `mapstructure:"show_grid"`
	Fullscreen bool `mapstructure:"fullscreen"`
}

// Config is the full editor configuration.
type Config struct {
	Camera CameraConfig `mapstructure:"camera"`
	Paths  PathsConfig  `mapstructure:"paths"`
	Editor EditorConfig `mapstructure:"editor"`
}

// Options controls where LoadConfig looks for settings.
type Options struct {
	ConfigDir string   // directory searched for config.yaml; "." when empty
	EnvFiles  []string // dotenv files; ".env" when nil
}

// SetDefaults registers the built-in value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("camera.ip", "")
	v.SetDefault("camera.username", "")
	v.SetDefault("camera.password", "")
	v.SetDefault("camera.resolution", "")
	v.SetDefault("camera.timeout", time.Duration(0))

	v.SetDefault("paths.grid", grid.DefaultPath)
	v.SetDefault("paths.calibration", overlay.DefaultCalibrationPath)
	v.SetDefault("paths.snapshot", camera.DefaultSnapshotPath)
	v.SetDefault("paths.rectified", "snapshot_rectified.png")
	v.SetDefault("paths.annotated", editor.DefaultAnnotatedPath)

	v.SetDefault("editor.show_grid", true)
	v.SetDefault("editor.fullscreen", true)
}

// LoadConfig reads defaults, then config.yaml, then the environment (after
// loading dotenv files). A missing config.yaml or .env is not an error.
func LoadConfig(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			log.Printf("%s not loaded: %v", f, err)
		}
	}

	dir := opts.ConfigDir
	if dir == "" {
		dir = "."
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		log.Printf("Loaded config from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// CameraClient builds the snapshot client described by c.
func (c CameraConfig) CameraClient() *camera.Client {
	client := camera.NewClient(c.IP, c.Username, c.Password)
	client.Resolution = c.Resolution
	client.Timeout = c.Timeout
	return client
}
