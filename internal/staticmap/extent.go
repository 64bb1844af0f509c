package staticmap

import (
	"github.com/paulmach/orb"

	"github.com/kiesman99/staticmap/pkg/tile"
)

// ResolveExtent merges the extents of bbox, bounds, lines, multipolygons,
// circles and markers, in that order. With a positive zoom a marker
// contributes its pixel footprint converted back to coordinates at that
// zoom; otherwise just its coordinate. ok is false when nothing has an
// extent.
func (m *Map) ResolveExtent(bbox *orb.Bound, zoom int) (extent orb.Bound, ok bool) {
	add := func(b orb.Bound) {
		if !ok {
			extent, ok = b, true
			return
		}
		extent = extent.Union(b)
	}

	if bbox != nil {
		add(*bbox)
	}
	for _, b := range m.bounds {
		add(b.Extent())
	}
	for _, l := range m.lines {
		add(l.Extent())
	}
	for _, mp := range m.multipolygons {
		add(mp.Extent())
	}
	for _, c := range m.circles {
		add(c.Extent())
	}

	ts := float64(m.opts.TileSize)
	for _, mk := range m.markers {
		if zoom <= 0 {
			add(mk.Extent())
			continue
		}
		px := mk.ExtentPx()
		x := tile.LonToX(mk.Coord.Lon(), zoom)
		y := tile.LatToY(mk.Coord.Lat(), zoom)
		add(orb.Bound{
			Min: orb.Point{tile.XToLon(x-px[0]/ts, zoom), tile.YToLat(y+px[1]/ts, zoom)},
			Max: orb.Point{tile.XToLon(x+px[2]/ts, zoom), tile.YToLat(y-px[3]/ts, zoom)},
		})
	}

	return extent, ok
}

// ResolveZoom returns the highest zoom in the configured range at which the
// extent fits the canvas minus padding. Zoom levels are tried from the
// maximum down. Without any extent the maximum is returned; when nothing
// fits, the minimum.
func (m *Map) ResolveZoom(bbox *orb.Bound) int {
	zr := m.opts.ZoomRange
	ts := float64(m.opts.TileSize)
	maxW := float64(m.opts.Width - 2*m.opts.PaddingX)
	maxH := float64(m.opts.Height - 2*m.opts.PaddingY)

	for z := zr.Max; z >= zr.Min; z-- {
		e, ok := m.ResolveExtent(bbox, z)
		if !ok {
			return zr.Max
		}

		w := (tile.LonToX(e.Max.Lon(), z) - tile.LonToX(e.Min.Lon(), z)) * ts
		if w > maxW {
			continue
		}
		h := (tile.LatToY(e.Min.Lat(), z) - tile.LatToY(e.Max.Lat(), z)) * ts
		if h > maxH {
			continue
		}
		return z
	}
	return zr.Min
}

func (m *Map) clampZoom(z int) int {
	return max(m.opts.ZoomRange.Min, min(z, m.opts.ZoomRange.Max))
}

func (m *Map) hasExtent() bool {
	return len(m.bounds)+len(m.lines)+len(m.multipolygons)+len(m.circles)+len(m.markers) > 0
}
