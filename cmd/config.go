package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/staticmap/internal/logging"
	"github.com/kiesman99/staticmap/internal/staticmap"
)

// addMapFlags registers the map options shared by every command.
func addMapFlags(c *cobra.Command) {
	defaults := staticmap.DefaultOptions()
	flags := c.PersistentFlags()

	// Canvas
	flags.Int("width", 0, "image width in pixels")
	flags.Int("height", 0, "image height in pixels")
	flags.Int("padding-x", 0, "minimum horizontal space around the features in pixels")
	flags.Int("padding-y", 0, "minimum vertical space around the features in pixels")

	// Tiles
	flags.String("tile-url", defaults.TileURL, "tile URL template with {z}, {x}, {y}, {s} or {quadkey} placeholders")
	flags.Int("tile-size", defaults.TileSize, "tile size in pixels")
	flags.StringSlice("subdomains", nil, "values for the {s} placeholder")
	flags.Duration("tile-timeout", 0, "timeout per tile request")
	flags.Int("tile-limit", defaults.TileLimit, "simultaneous tile requests, 0 for unlimited")
	flags.StringToString("tile-header", nil, "extra tile request header as key=value")
	flags.Bool("reverse-y", false, "count tile rows from the south (TMS)")
	flags.String("cache-dir", defaults.CacheDir, "tile cache directory, empty to disable")
	flags.String("cache-ext", defaults.CacheExt, "tile cache file extension")

	// Zoom
	flags.Int("zoom-min", defaults.ZoomRange.Min, "lowest zoom considered when fitting features")
	flags.Int("zoom-max", defaults.ZoomRange.Max, "highest zoom considered when fitting features")

	// Output and runtime
	flags.Int("quality", defaults.Quality, "JPEG quality")
	flags.Int("workers", defaults.Workers, "rasterization workers")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")

	for _, key := range []string{
		"width", "height", "padding-x", "padding-y",
		"tile-url", "tile-size", "subdomains", "tile-timeout", "tile-limit", "tile-header",
		"reverse-y", "cache-dir", "cache-ext", "zoom-min", "zoom-max",
		"quality", "workers", "log-level",
	} {
		viper.BindPFlag(key, flags.Lookup(key))
	}
}

// mapOptions builds map options from flags, environment and config file.
func mapOptions(v *viper.Viper, logger logrus.FieldLogger) staticmap.Options {
	opts := staticmap.DefaultOptions()
	opts.Width = v.GetInt("width")
	opts.Height = v.GetInt("height")
	opts.PaddingX = v.GetInt("padding-x")
	opts.PaddingY = v.GetInt("padding-y")

	opts.TileURL = v.GetString("tile-url")
	opts.TileSize = v.GetInt("tile-size")
	opts.Subdomains = v.GetStringSlice("subdomains")
	opts.TileTimeout = v.GetDuration("tile-timeout")
	opts.TileLimit = v.GetInt("tile-limit")
	opts.TileHeaders = v.GetStringMapString("tile-header")
	opts.ReverseY = v.GetBool("reverse-y")
	opts.CacheDir = v.GetString("cache-dir")
	opts.CacheExt = v.GetString("cache-ext")

	opts.ZoomRange = staticmap.ZoomRange{Min: v.GetInt("zoom-min"), Max: v.GetInt("zoom-max")}
	opts.Quality = v.GetInt("quality")
	opts.Workers = v.GetInt("workers")
	opts.Logger = logger
	return opts
}

func newLogger(c *cobra.Command) *logrus.Logger {
	return logging.New(viper.GetString("log-level"), c.ErrOrStderr())
}
