package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kiesman99/staticmap/internal/api"
	"github.com/kiesman99/staticmap/internal/staticmap"
)

// fs is where feature files are read from and maps are written to.
var fs = afero.NewOsFs()

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a static map image",
	Long: `Render a static map from tiles and vector features.

Coordinates are given as lon,lat. Repeated flags add one feature each:
  --line     "lon,lat;lon,lat;..."  open polyline
  --polygon  "lon,lat;lon,lat;..."  closed polygon
  --marker   "lon,lat;lon,lat;..."  markers used to fit the map
  --circle   "lon,lat,radius"       circle with radius in meters
  --text     "lon,lat,label"        text label

Styles are set in a JSON features file (--features), which may be combined
with the flags. Without --zoom the highest zoom showing all features is
used; without --center the map is centered on the features.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	flags := renderCmd.Flags()

	// Output options
	flags.StringP("output", "o", "", "output file, format from extension (default: PNG to stdout)")
	flags.String("profile", "", "write a CPU profile to this directory")

	// View options
	flags.String("center", "", "map center as 'lon,lat'")
	flags.String("bbox", "", "area to include as 'minlon,minlat,maxlon,maxlat'")
	flags.Int("zoom", 0, "zoom level (default: fit features)")

	addFeatureFlags(flags)

	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("center", flags.Lookup("center"))
	viper.BindPFlag("bbox", flags.Lookup("bbox"))
	viper.BindPFlag("zoom", flags.Lookup("zoom"))
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	if dir, _ := cmd.Flags().GetString("profile"); dir != "" {
		defer profile.Start(profile.ProfilePath(dir), profile.CPUProfile).Stop()
	}

	view, err := viewFromConfig(viper.GetViper())
	if err != nil {
		return err
	}
	features, err := collectFeatures(cmd.Flags())
	if err != nil {
		return err
	}

	opts := mapOptions(viper.GetViper(), logger)
	bar := newProgress(cmd.ErrOrStderr(), logger)
	opts.Observer = bar

	m, err := staticmap.New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := features.Apply(m); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar.Start()
	img, err := m.Render(ctx, view)
	bar.Finish()
	if err != nil {
		return err
	}

	if n := len(img.FailedTiles); n > 0 {
		logger.WithField("failed", n).Warn("Map rendered with missing tiles")
	}

	return writeImage(cmd, img, viper.GetString("output"))
}

func writeImage(cmd *cobra.Command, img *staticmap.Image, output string) error {
	if output == "" {
		data, err := img.Bytes("image/png")
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := img.SaveFs(fs, output); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Map written to %s (zoom %d)\n", output, img.Zoom)
	return nil
}

func viewFromConfig(v *viper.Viper) (staticmap.View, error) {
	view := staticmap.View{Zoom: v.GetInt("zoom")}
	if s := v.GetString("center"); s != "" {
		c, err := api.ParsePoint(s)
		if err != nil {
			return view, fmt.Errorf("invalid --center: %w", err)
		}
		view.Center = &c
	}
	if s := v.GetString("bbox"); s != "" {
		b, err := api.ParseBBox(s)
		if err != nil {
			return view, fmt.Errorf("invalid --bbox: %w", err)
		}
		view.BBox = &b
	}
	return view, nil
}

func addFeatureFlags(flags *pflag.FlagSet) {
	flags.StringArray("line", nil, "polyline as 'lon,lat;lon,lat;...'")
	flags.StringArray("polygon", nil, "polygon as 'lon,lat;lon,lat;...'")
	flags.StringArray("marker", nil, "markers as 'lon,lat;lon,lat;...'")
	flags.StringArray("circle", nil, "circle as 'lon,lat,radius'")
	flags.StringArray("text", nil, "label as 'lon,lat,text'")
	flags.String("features", "", "JSON features file")
}

// collectFeatures reads the features file, then appends features given by
// flags.
func collectFeatures(flags *pflag.FlagSet) (api.Features, error) {
	var features api.Features

	if path, _ := flags.GetString("features"); path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return features, err
		}
		if err := json.Unmarshal(data, &features); err != nil {
			return features, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	lines, _ := flags.GetStringArray("line")
	for _, s := range lines {
		coords, err := api.ParseCoords(s)
		if err != nil {
			return features, fmt.Errorf("invalid --line: %w", err)
		}
		features.Lines = append(features.Lines, api.Line{Coords: coords, Type: "polyline"})
	}

	polygons, _ := flags.GetStringArray("polygon")
	for _, s := range polygons {
		coords, err := api.ParseCoords(s)
		if err != nil {
			return features, fmt.Errorf("invalid --polygon: %w", err)
		}
		features.Polygons = append(features.Polygons, api.Line{Coords: coords})
	}

	markers, _ := flags.GetStringArray("marker")
	for _, s := range markers {
		m, err := api.ParseMarkers(s)
		if err != nil {
			return features, fmt.Errorf("invalid --marker: %w", err)
		}
		features.Markers = append(features.Markers, m...)
	}

	circles, _ := flags.GetStringArray("circle")
	for _, s := range circles {
		c, err := api.ParseCircle(s)
		if err != nil {
			return features, fmt.Errorf("invalid --circle: %w", err)
		}
		features.Circles = append(features.Circles, c)
	}

	texts, _ := flags.GetStringArray("text")
	for _, s := range texts {
		t, err := api.ParseText(s)
		if err != nil {
			return features, fmt.Errorf("invalid --text: %w", err)
		}
		features.Texts = append(features.Texts, t)
	}

	return features, nil
}
