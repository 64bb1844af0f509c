package staticmap

import (
	"errors"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/kiesman99/staticmap/internal/surface"
	"github.com/kiesman99/staticmap/pkg/tile"
)

// AssembleBase places the fetched tiles on a transparent canvas. Every tile
// is drawn at its decoded size from the top-left corner of its box and
// clipped to the canvas; tiles that failed or do not decode are skipped and
// reported.
func AssembleBase(results []tile.Result, width, height int, logger logrus.FieldLogger) (*image.RGBA, []FailedTile) {
	canvas := image.Rect(0, 0, width, height)
	parts := make([]surface.Placement, 0, len(results))
	var failed []FailedTile

	for _, r := range results {
		if !r.OK {
			failed = append(failed, failedTile(r.URL, r.Err))
			continue
		}

		img, err := surface.Decode(r.Data)
		if err != nil {
			logger.WithError(err).WithField("url", r.URL).Debug("Skipping undecodable tile")
			failed = append(failed, failedTile(r.URL, err))
			continue
		}

		// region of the tile that lands on the canvas, in tile coordinates
		b := img.Bounds()
		placed := image.Rect(r.Box.Min.X, r.Box.Min.Y, r.Box.Min.X+b.Dx(), r.Box.Min.Y+b.Dy())
		region := placed.Intersect(canvas).Sub(r.Box.Min)
		if region.Empty() {
			continue
		}
		part, err := surface.ExtractRegion(img, region)
		if err != nil {
			failed = append(failed, failedTile(r.URL, err))
			continue
		}
		parts = append(parts, surface.Placement{Image: part, Left: r.Box.Min.X + region.Min.X, Top: r.Box.Min.Y + region.Min.Y})
	}

	return surface.CompositeOver(surface.New(width, height), parts), failed
}

func failedTile(url string, err error) FailedTile {
	ft := FailedTile{URL: url}
	if err != nil {
		ft.Error = err.Error()
	}
	var fetchErr *tile.FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
		code := fetchErr.StatusCode
		ft.StatusCode = &code
	}
	return ft
}
