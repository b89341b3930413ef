package camera

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
)

// DefaultSnapshotPath is where the editor keeps the last raw frame.
const DefaultSnapshotPath = "snapshot_raw.png"

// Fetcher is anything that can produce a fresh snapshot.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// Cache serves the saved snapshot at Path, falling back to Fetcher when the
// file is missing or unreadable.
type Cache struct {
	Path    string
	Fetcher Fetcher
}

// NewCache creates a cache at path backed by f.
func NewCache(path string, f Fetcher) *Cache {
	if path == "" {
		path = DefaultSnapshotPath
	}
	return &Cache{Path: path, Fetcher: f}
}

// Load makes sure a decodable snapshot exists at c.Path and returns that
// path. fetched reports whether the camera had to be contacted.
func (c *Cache) Load(ctx context.Context) (path string, fetched bool, err error) {
	if _, statErr := os.Stat(c.Path); statErr == nil {
		log.Printf("Loading saved snapshot from %s", c.Path)
		decodeErr := checkImage(c.Path)
		if decodeErr == nil {
			log.Printf("Using saved snapshot (no camera connection needed)")
			return c.Path, false, nil
		}
		log.Printf("Warning: failed to load snapshot (%v), fetching from camera...", decodeErr)
	} else {
		log.Printf("No saved snapshot found, fetching from camera...")
	}

	if err := c.refresh(ctx); err != nil {
		return "", false, err
	}
	return c.Path, true, nil
}

func (c *Cache) refresh(ctx context.Context) error {
	snap, err := c.Fetcher.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := writePNG(c.Path, snap.Image); err != nil {
		return fmt.Errorf("failed to save snapshot to %s: %w", c.Path, err)
	}
	log.Printf("Saved snapshot to %s", c.Path)
	return nil
}

func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.Decode(f)
	return err
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
