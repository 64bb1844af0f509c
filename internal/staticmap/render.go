package staticmap

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kiesman99/staticmap/internal/markup"
	"github.com/kiesman99/staticmap/internal/raster"
	"github.com/kiesman99/staticmap/internal/surface"
	"github.com/kiesman99/staticmap/pkg/tile"
)

// View selects what part of the world a render shows.
type View struct {
	// Center fixes the map centre. Without it the centre of the feature
	// extent is used.
	Center *orb.Point
	// BBox is merged into the feature extent.
	BBox *orb.Bound
	// Zoom fixes the zoom level when positive; otherwise the highest
	// fitting zoom is chosen.
	Zoom int
}

// Render draws the map. Tiles are fetched while the overlay is rasterized;
// both are joined before composition. Missing tiles leave gaps in the base
// layer but never fail the render.
func (m *Map) Render(ctx context.Context, view View) (*Image, error) {
	if view.Center == nil && view.BBox == nil && !m.hasExtent() {
		return nil, &ConfigError{Field: "map", Message: "cannot render empty map: add a center, lines, markers or polygons"}
	}

	start := time.Now()
	zoom := view.Zoom
	if zoom <= 0 {
		zoom = m.ResolveZoom(view.BBox)
	}
	zoom = m.clampZoom(zoom)

	var center orb.Point
	if view.Center != nil {
		center = *view.Center
	} else {
		extent, _ := m.ResolveExtent(view.BBox, zoom)
		center = extent.Center()
	}
	m.observe(Event{Stage: StageZoomResolved, Zoom: zoom, Took: time.Since(start)})

	log := m.logger.WithFields(logrus.Fields{"zoom": zoom, "center": center})
	mv := markup.View{
		Width:    m.opts.Width,
		Height:   m.opts.Height,
		Zoom:     zoom,
		CenterX:  tile.LonToX(center.Lon(), zoom),
		CenterY:  tile.LatToY(center.Lat(), zoom),
		TileSize: m.opts.TileSize,
	}
	snap := m.snapshot()

	var (
		base    *image.RGBA
		failed  []FailedTile
		overlay *image.RGBA
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		base, failed, err = m.drawBaseLayer(gctx, mv, log)
		return err
	})
	g.Go(func() error {
		var err error
		overlay, err = m.drawOverlay(gctx, mv, snap)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	composeStart := time.Now()
	img, err := Compose(base, overlay)
	if err != nil {
		return nil, err
	}
	m.observe(Event{Stage: StageComposited, Zoom: zoom, Took: time.Since(composeStart)})
	log.WithField("took", time.Since(start)).Info("Map rendered")

	return &Image{RGBA: img, Zoom: zoom, Center: center, FailedTiles: failed, quality: m.opts.Quality}, nil
}

func (m *Map) drawBaseLayer(ctx context.Context, mv markup.View, log logrus.FieldLogger) (*image.RGBA, []FailedTile, error) {
	start := time.Now()
	if m.opts.TileURL == "" {
		m.observe(Event{Stage: StageBaseLayerReady, Zoom: mv.Zoom, Took: time.Since(start)})
		return surface.New(mv.Width, mv.Height), nil, nil
	}

	plans := tile.PlanGrid(tile.Source{
		URL:        m.opts.TileURL,
		Subdomains: m.opts.Subdomains,
		ReverseY:   m.opts.ReverseY,
		Size:       m.opts.TileSize,
	}, tile.Viewport{
		Zoom:    mv.Zoom,
		CenterX: mv.CenterX,
		CenterY: mv.CenterY,
		Width:   mv.Width,
		Height:  mv.Height,
	})

	log.WithField("tiles", len(plans)).Debug("Start downloading tiles")
	results := m.fetcher.FetchAll(ctx, plans)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{"tiles": len(plans), "took": time.Since(start)}).Debug("Finish downloading tiles")

	base, failed := AssembleBase(results, mv.Width, mv.Height, log)
	if len(failed) > 0 {
		log.WithField("failed", len(failed)).Warn("Some tiles are missing from the base layer")
	}
	m.observe(Event{
		Stage:       StageBaseLayerReady,
		Zoom:        mv.Zoom,
		Took:        time.Since(start),
		Tiles:       len(plans),
		FailedTiles: len(failed),
	})
	return base, failed, nil
}

func (m *Map) drawOverlay(ctx context.Context, mv markup.View, snap snapshot) (*image.RGBA, error) {
	start := time.Now()

	lines := make([]string, 0, len(snap.lines)+len(snap.multipolygons))
	for _, l := range snap.lines {
		lines = append(lines, markup.Line(l, mv))
	}
	for _, mp := range snap.multipolygons {
		lines = append(lines, markup.MultiPolygon(mp, mv))
	}
	circles := make([]string, 0, len(snap.circles))
	for _, c := range snap.circles {
		circles = append(circles, markup.Circle(c, mv))
	}
	customs := make([]string, 0, len(snap.customs))
	for _, c := range snap.customs {
		customs = append(customs, markup.Custom(c, mv))
	}

	task := raster.Task{
		Width:  mv.Width,
		Height: mv.Height,
		Layers: []raster.Layer{
			{Class: "lines", Docs: markup.Documents(mv, lines, markup.ChunkSize)},
			{Class: "circles", Docs: markup.Documents(mv, circles, markup.ChunkSize)},
			{Class: "custom", Docs: markup.Documents(mv, customs, markup.ChunkSize)},
		},
		Labels: markup.Labels(snap.texts, mv),
	}

	overlay, err := m.pool.Submit(ctx, task).Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RasterError{Err: err}
	}
	m.observe(Event{Stage: StageOverlayReady, Zoom: mv.Zoom, Took: time.Since(start)})
	return overlay, nil
}

// Compose alpha-composites the overlay over the base layer at the origin.
func Compose(base, overlay image.Image) (*image.RGBA, error) {
	if base == nil || overlay == nil {
		return nil, &CompositeError{Err: fmt.Errorf("missing layer")}
	}
	if base.Bounds().Size() != overlay.Bounds().Size() {
		return nil, &CompositeError{Err: fmt.Errorf("layer size mismatch: base %v, overlay %v", base.Bounds().Size(), overlay.Bounds().Size())}
	}
	return surface.CompositeOver(base, []surface.Placement{{Image: overlay}}), nil
}

func (m *Map) observe(e Event) {
	if m.opts.Observer != nil {
		m.opts.Observer.Observe(e)
	}
}
