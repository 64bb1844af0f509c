package tile

import (
	"fmt"
	"image"

	"github.com/paulmach/orb/maptile"
)

// DefaultSize is the edge length of a tile in pixels.
const DefaultSize = 256

// DefaultRequestLimit is the number of simultaneous tile requests used when
// nothing else is configured.
// https://operations.osmfoundation.org/policies/tiles/#technical-usage-requirements
const DefaultRequestLimit = 2

// Key identifies a cached tile. X and Y are the unwrapped grid indices.
type Key struct {
	Size int
	Zoom int
	X, Y int
}

// Name returns the cache file name without extension.
func (k Key) Name() string {
	return fmt.Sprintf("%d_%d_%d", k.Zoom, k.X, k.Y)
}

// Plan describes one tile covering part of the canvas.
type Plan struct {
	// Tile is the remote tile after wrapping and Y inversion.
	Tile maptile.Tile
	URL  string
	Key  Key
	// Box is the destination rectangle on the canvas.
	Box image.Rectangle
}

// Result is the outcome of fetching one planned tile.
type Result struct {
	OK   bool
	URL  string
	Box  image.Rectangle
	Data []byte
	Err  error
}

// FetchError represents a single failed tile download
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tile %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("tile %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
