// Package staticmap renders static map images from raster tiles and vector
// overlay features.
//
// A Map is a single render session: create it with New, add features, then
// call Render once per view. Features keep their insertion order within each
// type, which is also their draw order.
package staticmap

import (
	"github.com/sirupsen/logrus"

	"github.com/kiesman99/staticmap/internal/feature"
	"github.com/kiesman99/staticmap/internal/raster"
	"github.com/kiesman99/staticmap/pkg/tile"
)

// Map holds options and features of one static map.
type Map struct {
	opts    Options
	logger  logrus.FieldLogger
	fetcher *tile.Fetcher
	pool    *raster.Pool
	owned   bool

	lines         []*feature.Line
	multipolygons []*feature.MultiPolygon
	circles       []*feature.Circle
	markers       []*feature.Marker
	customs       []*feature.CustomFigure
	texts         []*feature.Text
	bounds        []*feature.Bound
}

// New creates a map from opts.
func New(opts Options) (*Map, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	var cache *tile.Cache
	if opts.CacheDir != "" {
		cache = tile.NewCache(opts.CacheFs, opts.CacheDir, opts.CacheExt, opts.Logger)
	}

	m := &Map{
		opts:   opts,
		logger: opts.Logger,
		fetcher: tile.NewFetcher(tile.FetcherOptions{
			Client:  opts.HTTPClient,
			Headers: opts.TileHeaders,
			Timeout: opts.TileTimeout,
			Limit:   opts.TileLimit,
			Cache:   cache,
			Logger:  opts.Logger,
		}),
		pool: opts.Pool,
	}
	if m.pool == nil {
		m.pool = raster.NewPool(opts.Workers, opts.Logger)
		m.owned = true
	}
	return m, nil
}

// Options returns the normalized options.
func (m *Map) Options() Options {
	return m.opts
}

// Close waits for pending cache writes and for the rasterization pool when
// the map created it.
func (m *Map) Close() {
	if c := m.fetcher.Cache(); c != nil {
		c.Wait()
	}
	if m.owned {
		m.pool.Close()
	}
}

// AddLine adds a polyline or polygon.
func (m *Map) AddLine(l feature.Line) error {
	f, err := feature.NewLine(l)
	if err != nil {
		return err
	}
	m.lines = append(m.lines, f)
	return nil
}

// AddPolygon adds a polygon. It shares the line sequence.
func (m *Map) AddPolygon(l feature.Line) error {
	return m.AddLine(l)
}

// AddMultiPolygon adds a multipolygon.
func (m *Map) AddMultiPolygon(mp feature.MultiPolygon) error {
	f, err := feature.NewMultiPolygon(mp)
	if err != nil {
		return err
	}
	m.multipolygons = append(m.multipolygons, f)
	return nil
}

// AddCircle adds a circle.
func (m *Map) AddCircle(c feature.Circle) error {
	f, err := feature.NewCircle(c)
	if err != nil {
		return err
	}
	m.circles = append(m.circles, f)
	return nil
}

// AddMarker adds a marker.
func (m *Map) AddMarker(mk feature.Marker) error {
	f, err := feature.NewMarker(mk)
	if err != nil {
		return err
	}
	m.markers = append(m.markers, f)
	return nil
}

// AddCustom adds a custom path figure.
func (m *Map) AddCustom(c feature.CustomFigure) error {
	f, err := feature.NewCustomFigure(c)
	if err != nil {
		return err
	}
	m.customs = append(m.customs, f)
	return nil
}

// AddText adds a text label.
func (m *Map) AddText(t feature.Text) error {
	f, err := feature.NewText(t)
	if err != nil {
		return err
	}
	m.texts = append(m.texts, f)
	return nil
}

// AddBound widens the map extent without drawing anything.
func (m *Map) AddBound(b feature.Bound) error {
	f, err := feature.NewBound(b)
	if err != nil {
		return err
	}
	m.bounds = append(m.bounds, f)
	return nil
}

// snapshot is an immutable copy of the feature sequences for one render.
type snapshot struct {
	lines         []*feature.Line
	multipolygons []*feature.MultiPolygon
	circles       []*feature.Circle
	customs       []*feature.CustomFigure
	texts         []*feature.Text
}

func (m *Map) snapshot() snapshot {
	return snapshot{
		lines:         append([]*feature.Line(nil), m.lines...),
		multipolygons: append([]*feature.MultiPolygon(nil), m.multipolygons...),
		circles:       append([]*feature.Circle(nil), m.circles...),
		customs:       append([]*feature.CustomFigure(nil), m.customs...),
		texts:         append([]*feature.Text(nil), m.texts...),
	}
}
