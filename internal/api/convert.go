package api

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/kiesman99/staticmap/internal/feature"
	"github.com/kiesman99/staticmap/internal/staticmap"
	"github.com/kiesman99/staticmap/internal/surface"
)

// Validate checks the request and returns one entry per invalid field.
// maxSize caps width and height when positive.
func (r *RenderRequest) Validate(maxSize int) []FieldError {
	var errs []FieldError
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if r.Width <= 0 || r.Height <= 0 {
		add("width", "width and height must be positive")
	}
	if maxSize > 0 && (r.Width > maxSize || r.Height > maxSize) {
		add("width", "width and height must not exceed %d", maxSize)
	}
	if r.PaddingX < 0 || r.PaddingY < 0 {
		add("padding_x", "padding must not be negative")
	}
	if r.Zoom < 0 || r.Zoom > 22 {
		add("zoom", "zoom must be between 0 and 22")
	}
	if r.BBox != nil {
		b := r.BBox
		if b[0] > b[2] || b[1] > b[3] {
			add("bbox", "bbox must be [min lon, min lat, max lon, max lat]")
		}
	}
	if f, err := surface.ParseFormat(r.Format); err != nil || !f.Encodable() {
		add("format", "format must be one of png, jpeg, gif")
	}
	if r.TileSource != nil {
		if err := ValidateTileURL(r.TileSource.Url); err != nil {
			add("tile_source.url", "%s", err)
		}
	}
	if r.Center == nil && r.BBox == nil && r.Features.shapes() == 0 {
		add("center", "center, bbox or at least one line, polygon, circle or marker is required")
	}
	return errs
}

// ValidateTileURL checks that a tile URL template addresses tiles.
func ValidateTileURL(url string) error {
	if url == "" {
		return fmt.Errorf("tile URL is required")
	}
	if strings.Contains(url, "{quadkey}") {
		return nil
	}
	if !strings.Contains(url, "{z}") || !strings.Contains(url, "{x}") || !strings.Contains(url, "{y}") {
		return fmt.Errorf("tile URL must contain {z}, {x} and {y} or {quadkey} placeholders")
	}
	return nil
}

// Options applies the request on top of base.
func (r *RenderRequest) Options(base staticmap.Options) staticmap.Options {
	opts := base
	opts.Width = r.Width
	opts.Height = r.Height
	opts.PaddingX = r.PaddingX
	opts.PaddingY = r.PaddingY
	if r.Quality != nil {
		opts.Quality = *r.Quality
	}
	if zr := r.ZoomRange; zr != nil {
		if zr.Min != nil {
			opts.ZoomRange.Min = *zr.Min
		}
		if zr.Max != nil {
			opts.ZoomRange.Max = *zr.Max
			opts.MaxZoom = 0
		}
	}
	if ts := r.TileSource; ts != nil {
		opts.TileURL = ts.Url
		opts.Subdomains = ts.Subdomains
		opts.TileHeaders = ts.Headers
		if ts.Size != nil {
			opts.TileSize = *ts.Size
		}
		if ts.ReverseY != nil {
			opts.ReverseY = *ts.ReverseY
		}
	}
	return opts
}

// View returns the render view of the request.
func (r *RenderRequest) View() staticmap.View {
	v := staticmap.View{Zoom: r.Zoom}
	if r.Center != nil {
		c := *r.Center
		v.Center = &c
	}
	if r.BBox != nil {
		b := orb.Bound{Min: orb.Point{r.BBox[0], r.BBox[1]}, Max: orb.Point{r.BBox[2], r.BBox[3]}}
		v.BBox = &b
	}
	return v
}

// Mime returns the media type of the requested output format.
func (r *RenderRequest) Mime() string {
	f, err := surface.ParseFormat(r.Format)
	if err != nil {
		return surface.PNG.Mime()
	}
	return f.Mime()
}

// shapes counts the features that contribute to the map extent.
func (f *Features) shapes() int {
	return len(f.Lines) + len(f.Polygons) + len(f.MultiPolygons) + len(f.Circles) + len(f.Markers) + len(f.Bounds)
}

// Len returns the number of features.
func (f *Features) Len() int {
	return f.shapes() + len(f.Customs) + len(f.Texts)
}

// Apply adds all features to m. The error names the first invalid feature.
func (f *Features) Apply(m *staticmap.Map) error {
	for i, l := range f.Lines {
		if err := m.AddLine(l.feature()); err != nil {
			return fmt.Errorf("lines[%d]: %w", i, err)
		}
	}
	for i, l := range f.Polygons {
		p := l.feature()
		p.Type = feature.Polygon
		if err := m.AddPolygon(p); err != nil {
			return fmt.Errorf("polygons[%d]: %w", i, err)
		}
	}
	for i, mp := range f.MultiPolygons {
		err := m.AddMultiPolygon(feature.MultiPolygon{Coords: mp.Coords, Color: mp.Color, Fill: mp.Fill, Width: mp.Width})
		if err != nil {
			return fmt.Errorf("multipolygons[%d]: %w", i, err)
		}
	}
	for i, c := range f.Circles {
		err := m.AddCircle(feature.Circle{Coord: c.Coord, Radius: c.Radius, Color: c.Color, Fill: c.Fill, Width: c.Width})
		if err != nil {
			return fmt.Errorf("circles[%d]: %w", i, err)
		}
	}
	for i, mk := range f.Markers {
		err := m.AddMarker(feature.Marker{
			Coord:  mk.Coord,
			Anchor: feature.Anchor{Width: mk.Width, Height: mk.Height, OffsetX: mk.OffsetX, OffsetY: mk.OffsetY},
		})
		if err != nil {
			return fmt.Errorf("markers[%d]: %w", i, err)
		}
	}
	for i, c := range f.Customs {
		err := m.AddCustom(feature.CustomFigure{
			Coord:       c.Coord,
			Path:        c.Path,
			Color:       c.Color,
			Fill:        c.Fill,
			StrokeWidth: c.StrokeWidth,
			Anchor:      feature.Anchor{Width: c.Width, Height: c.Height, OffsetX: c.OffsetX, OffsetY: c.OffsetY},
		})
		if err != nil {
			return fmt.Errorf("customs[%d]: %w", i, err)
		}
	}
	for i, t := range f.Texts {
		err := m.AddText(feature.Text{
			Coord:   t.Coord,
			Text:    t.Text,
			Color:   t.Color,
			Width:   t.Width,
			Fill:    t.Fill,
			Size:    t.Size,
			Anchor:  feature.TextAnchor(t.Anchor),
			OffsetX: t.OffsetX,
			OffsetY: t.OffsetY,
		})
		if err != nil {
			return fmt.Errorf("texts[%d]: %w", i, err)
		}
	}
	for i, b := range f.Bounds {
		if err := m.AddBound(feature.Bound{Coords: b.Coords}); err != nil {
			return fmt.Errorf("bounds[%d]: %w", i, err)
		}
	}
	return nil
}

func (l Line) feature() feature.Line {
	return feature.Line{
		Coords: l.Coords,
		Type:   feature.LineType(l.Type),
		Color:  l.Color,
		Fill:   l.Fill,
		Width:  l.Width,
	}
}
