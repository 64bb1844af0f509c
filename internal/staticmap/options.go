package staticmap

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/kiesman99/staticmap/internal/raster"
	"github.com/kiesman99/staticmap/pkg/tile"
)

// DefaultTileURL is the OpenStreetMap standard layer.
const DefaultTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// ZoomRange bounds automatic zoom selection.
type ZoomRange struct {
	Min, Max int
}

// Options contains all map parameters
type Options struct {
	// Canvas size in pixels, required.
	Width, Height int
	// Minimum free space kept around the features when fitting the zoom.
	PaddingX, PaddingY int

	// TileURL is a template with {z}, {x}, {y}, {s} or {quadkey}
	// placeholders. An empty URL renders without a base layer.
	TileURL     string
	TileSize    int
	Subdomains  []string
	ReverseY    bool
	TileTimeout time.Duration
	TileHeaders map[string]string
	// TileLimit is the number of simultaneous tile requests. Zero removes
	// the limit.
	TileLimit int

	// CacheDir enables the on-disk tile cache when set.
	CacheDir string
	CacheExt string
	// CacheFs defaults to the OS filesystem.
	CacheFs afero.Fs

	ZoomRange ZoomRange
	// MaxZoom overrides ZoomRange.Max when positive.
	MaxZoom int

	// Quality is the JPEG output quality.
	Quality int

	// Workers sizes the rasterization pool. Ignored when Pool is set.
	Workers int
	Pool    *raster.Pool

	HTTPClient tile.Doer
	Logger     logrus.FieldLogger
	Observer   Observer
}

// DefaultOptions returns the options used by the CLI and server before
// user configuration is applied. Width and Height are left unset.
func DefaultOptions() Options {
	return Options{
		TileURL:   DefaultTileURL,
		TileSize:  tile.DefaultSize,
		TileLimit: tile.DefaultRequestLimit,
		CacheDir:  "tiles",
		CacheExt:  tile.DefaultCacheExt,
		ZoomRange: ZoomRange{Min: 1, Max: 17},
		Quality:   100,
		Workers:   raster.DefaultWorkers,
	}
}

func (o *Options) normalize() error {
	if o.Width <= 0 || o.Height <= 0 {
		return &ConfigError{Field: "size", Message: "width and height must be positive"}
	}
	if o.PaddingX < 0 || o.PaddingY < 0 {
		return &ConfigError{Field: "padding", Message: "padding must not be negative"}
	}
	if o.TileSize <= 0 {
		o.TileSize = tile.DefaultSize
	}
	if o.ZoomRange.Min <= 0 {
		o.ZoomRange.Min = 1
	}
	if o.MaxZoom > 0 {
		o.ZoomRange.Max = o.MaxZoom
	}
	if o.ZoomRange.Max <= 0 {
		o.ZoomRange.Max = 17
	}
	if o.ZoomRange.Min > o.ZoomRange.Max {
		return &ConfigError{Field: "zoom", Message: "minimum zoom exceeds maximum zoom"}
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return nil
}
