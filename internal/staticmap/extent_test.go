package staticmap

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/staticmap/internal/feature"
	"github.com/kiesman99/staticmap/pkg/tile"
)

func newTestMap(t *testing.T, opts Options) *Map {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func marker(lon, lat float64) feature.Marker {
	return feature.Marker{Coord: orb.Point{lon, lat}, Anchor: feature.Anchor{Width: 20, Height: 30}}
}

func TestNewRequiresCanvasSize(t *testing.T) {
	_, err := New(Options{Width: 100})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "size", cfgErr.Field)

	_, err = New(Options{Width: 100, Height: 100, ZoomRange: ZoomRange{Min: 10, Max: 5}})
	assert.ErrorAs(t, err, &cfgErr)
}

func TestOptionsDefaults(t *testing.T) {
	m := newTestMap(t, Options{Width: 10, Height: 10})
	opts := m.Options()
	assert.Equal(t, tile.DefaultSize, opts.TileSize)
	assert.Equal(t, ZoomRange{Min: 1, Max: 17}, opts.ZoomRange)

	m = newTestMap(t, Options{Width: 10, Height: 10, MaxZoom: 12})
	assert.Equal(t, 12, m.Options().ZoomRange.Max)
}

func TestResolveExtentPointMarkers(t *testing.T) {
	m := newTestMap(t, Options{Width: 600, Height: 400})
	require.NoError(t, m.AddMarker(marker(13.4, 52.5)))
	require.NoError(t, m.AddMarker(marker(2.35, 48.85)))
	require.NoError(t, m.AddMarker(marker(-0.12, 51.5)))

	extent, ok := m.ResolveExtent(nil, 0)
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{-0.12, 48.85}, Max: orb.Point{13.4, 52.5}}, extent)
}

func TestResolveExtentMergesAllSources(t *testing.T) {
	m := newTestMap(t, Options{Width: 600, Height: 400})
	require.NoError(t, m.AddBound(feature.Bound{Coords: orb.LineString{{0, 0}, {1, 1}}}))
	require.NoError(t, m.AddLine(feature.Line{Coords: orb.LineString{{2, 2}, {3, 3}}}))
	require.NoError(t, m.AddMultiPolygon(feature.MultiPolygon{Coords: []orb.Ring{{{-4, 1}, {-3, 1}, {-3, 2}}}}))
	require.NoError(t, m.AddMarker(marker(1, 5)))
	// custom figures and labels do not widen the extent
	require.NoError(t, m.AddText(feature.Text{Coord: orb.Point{50, 50}, Text: "far away"}))

	bbox := orb.Bound{Min: orb.Point{-1, -6}, Max: orb.Point{0, 0}}
	extent, ok := m.ResolveExtent(&bbox, 0)
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{-4, -6}, Max: orb.Point{3, 5}}, extent)
}

func TestResolveExtentMarkerFootprint(t *testing.T) {
	m := newTestMap(t, Options{Width: 600, Height: 400})
	require.NoError(t, m.AddMarker(marker(13.4, 52.5)))

	point, ok := m.ResolveExtent(nil, 0)
	require.True(t, ok)
	assert.Equal(t, point.Min, point.Max)

	z := 10
	extent, ok := m.ResolveExtent(nil, z)
	require.True(t, ok)

	// 20x30 marker anchored bottom centre: 10px either side, 30px above
	widthPx := (tile.LonToX(extent.Max.Lon(), z) - tile.LonToX(extent.Min.Lon(), z)) * 256
	heightPx := (tile.LatToY(extent.Min.Lat(), z) - tile.LatToY(extent.Max.Lat(), z)) * 256
	assert.InDelta(t, 20, widthPx, 1e-6)
	assert.InDelta(t, 30, heightPx, 1e-6)
	assert.InDelta(t, 52.5, extent.Min.Lat(), 1e-9)
	assert.Greater(t, extent.Max.Lat(), 52.5)
}

func TestResolveExtentEmpty(t *testing.T) {
	m := newTestMap(t, Options{Width: 600, Height: 400})
	_, ok := m.ResolveExtent(nil, 5)
	assert.False(t, ok)
	assert.Equal(t, 17, m.ResolveZoom(nil))
}

func TestResolveZoomSingleMarker(t *testing.T) {
	m := newTestMap(t, Options{Width: 600, Height: 400})
	require.NoError(t, m.AddMarker(marker(13.4, 52.5)))
	assert.Equal(t, 17, m.ResolveZoom(nil))
}

func TestResolveZoomFitsExtent(t *testing.T) {
	testCases := []struct {
		name     string
		opts     Options
		from, to orb.Point
	}{
		{"europe", Options{Width: 600, Height: 400}, orb.Point{-9, 36}, orb.Point{30, 60}},
		{"city", Options{Width: 800, Height: 600}, orb.Point{13.3, 52.45}, orb.Point{13.5, 52.55}},
		{"padded", Options{Width: 800, Height: 600, PaddingX: 200, PaddingY: 100}, orb.Point{13.3, 52.45}, orb.Point{13.5, 52.55}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMap(t, tc.opts)
			require.NoError(t, m.AddLine(feature.Line{Coords: orb.LineString{tc.from, tc.to}}))

			z := m.ResolveZoom(nil)
			fits := func(z int) bool {
				w := (tile.LonToX(tc.to.Lon(), z) - tile.LonToX(tc.from.Lon(), z)) * 256
				h := (tile.LatToY(tc.from.Lat(), z) - tile.LatToY(tc.to.Lat(), z)) * 256
				return w <= float64(tc.opts.Width-2*tc.opts.PaddingX) && h <= float64(tc.opts.Height-2*tc.opts.PaddingY)
			}
			assert.True(t, fits(z), "zoom %d must fit", z)
			if z < 17 {
				assert.False(t, fits(z+1), "zoom %d must not fit", z+1)
			}
		})
	}
}

func TestResolveZoomFallsBackToMinimum(t *testing.T) {
	m := newTestMap(t, Options{Width: 10, Height: 10, ZoomRange: ZoomRange{Min: 3, Max: 8}})
	require.NoError(t, m.AddLine(feature.Line{Coords: orb.LineString{{-170, -80}, {170, 80}}}))
	assert.Equal(t, 3, m.ResolveZoom(nil))
}

func TestClampZoom(t *testing.T) {
	m := newTestMap(t, Options{Width: 10, Height: 10, ZoomRange: ZoomRange{Min: 2, Max: 8}})
	assert.Equal(t, 8, m.clampZoom(12))
	assert.Equal(t, 2, m.clampZoom(1))
	assert.Equal(t, 5, m.clampZoom(5))
}
