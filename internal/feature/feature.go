// Package feature holds the vector overlay value objects a map is built from.
//
// Features are immutable after construction. Every feature reports its
// geographic extent; markers additionally report their pixel footprint
// relative to the anchor coordinate.
package feature

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Default colours and widths applied when an option is left empty.
const (
	DefaultColor       = "#000000BB"
	DefaultFill        = "#AA0000BB"
	DefaultLineWidth   = 3
	DefaultStrokeWidth = 1
	DefaultFontSize    = 12
)

// ErrNoCoordinates is returned when a shape is built without coordinates.
var ErrNoCoordinates = errors.New("no coordinates given")

// LineType selects how a Line is drawn.
type LineType string

const (
	Polygon  LineType = "polygon"
	Polyline LineType = "polyline"
)

// Line is a polyline or polygon.
type Line struct {
	Coords orb.LineString
	Type   LineType
	Color  string
	Fill   string
	Width  float64
}

// NewLine validates and normalizes a line. Anything but an explicit
// polyline is drawn closed.
func NewLine(l Line) (*Line, error) {
	if len(l.Coords) == 0 {
		return nil, fmt.Errorf("line: %w", ErrNoCoordinates)
	}
	if l.Type != Polyline {
		l.Type = Polygon
	}
	if l.Color == "" {
		l.Color = DefaultColor
	}
	if l.Width <= 0 {
		l.Width = DefaultLineWidth
	}
	return &l, nil
}

// Extent returns the bounding box of the coordinates.
func (l *Line) Extent() orb.Bound {
	return l.Coords.Bound()
}

// MultiPolygon is a set of closed rings drawn as a single even-odd path.
type MultiPolygon struct {
	Coords []orb.Ring
	Color  string
	Fill   string
	Width  float64
}

// NewMultiPolygon validates and normalizes a multipolygon.
func NewMultiPolygon(m MultiPolygon) (*MultiPolygon, error) {
	rings := make([]orb.Ring, 0, len(m.Coords))
	for _, r := range m.Coords {
		if len(r) > 0 {
			rings = append(rings, r)
		}
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("multipolygon: %w", ErrNoCoordinates)
	}
	m.Coords = rings
	if m.Color == "" {
		m.Color = DefaultColor
	}
	if m.Width <= 0 {
		m.Width = DefaultLineWidth
	}
	return &m, nil
}

// Extent returns the union of all ring bounds.
func (m *MultiPolygon) Extent() orb.Bound {
	b := m.Coords[0].Bound()
	for _, r := range m.Coords[1:] {
		b = b.Union(r.Bound())
	}
	return b
}

// Circle is a circle with a ground radius in meters.
type Circle struct {
	Coord  orb.Point
	Radius float64
	Color  string
	Fill   string
	Width  float64
}

// NewCircle validates and normalizes a circle.
func NewCircle(c Circle) (*Circle, error) {
	if c.Radius <= 0 {
		return nil, fmt.Errorf("circle: radius must be positive, got %v", c.Radius)
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.Fill == "" {
		c.Fill = DefaultFill
	}
	if c.Width <= 0 {
		c.Width = DefaultLineWidth
	}
	return &c, nil
}

// Extent returns the geographic box enclosing the circle.
func (c *Circle) Extent() orb.Bound {
	return geo.NewBoundAroundPoint(c.Coord, c.Radius)
}

// Anchor positions a pixel sized figure relative to its coordinate.
// Offsets are measured from the figure's top-left corner. Nil offsets
// default to the bottom centre.
type Anchor struct {
	Width, Height    float64
	OffsetX, OffsetY *float64
}

func (a *Anchor) normalize(kind string) error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("%s: width and height are required", kind)
	}
	if a.OffsetX == nil {
		x := a.Width / 2
		a.OffsetX = &x
	}
	if a.OffsetY == nil {
		y := a.Height
		a.OffsetY = &y
	}
	return nil
}

// ExtentPx returns the footprint in pixels as distances from the anchor:
// left, bottom, right, top.
func (a Anchor) ExtentPx() [4]float64 {
	return [4]float64{*a.OffsetX, a.Height - *a.OffsetY, a.Width - *a.OffsetX, *a.OffsetY}
}

// Marker is a point feature with a pixel footprint. Markers take part in
// extent and zoom calculation only; icons are not drawn.
type Marker struct {
	Coord orb.Point
	Anchor
}

// NewMarker validates a marker and fills in default offsets.
func NewMarker(m Marker) (*Marker, error) {
	if err := m.Anchor.normalize("marker"); err != nil {
		return nil, err
	}
	return &m, nil
}

// Extent returns the marker coordinate as a degenerate box.
func (m *Marker) Extent() orb.Bound {
	return m.Coord.Bound()
}

// CustomFigure is a path in a 500x500 view box anchored at a coordinate.
type CustomFigure struct {
	Coord       orb.Point
	Path        string
	Color       string
	Fill        string
	StrokeWidth float64
	Anchor
}

// NewCustomFigure validates a figure and applies defaults.
func NewCustomFigure(c CustomFigure) (*CustomFigure, error) {
	if err := c.Anchor.normalize("custom figure"); err != nil {
		return nil, err
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.Fill == "" {
		c.Fill = DefaultFill
	}
	if c.StrokeWidth <= 0 {
		c.StrokeWidth = DefaultStrokeWidth
	}
	return &c, nil
}

// Extent returns the anchor coordinate as a degenerate box.
func (c *CustomFigure) Extent() orb.Bound {
	return c.Coord.Bound()
}

// TextAnchor aligns a label horizontally on its coordinate.
type TextAnchor string

const (
	AnchorStart  TextAnchor = "start"
	AnchorMiddle TextAnchor = "middle"
	AnchorEnd    TextAnchor = "end"
)

// Text is a label placed at a coordinate.
type Text struct {
	Coord   orb.Point
	Text    string
	Color   string
	Width   float64
	Fill    string
	Size    float64
	Anchor  TextAnchor
	OffsetX float64
	OffsetY float64
}

// NewText validates a label and applies defaults.
func NewText(t Text) (*Text, error) {
	if t.Text == "" {
		return nil, errors.New("text: empty label")
	}
	if t.Color == "" {
		t.Color = DefaultColor
	}
	if t.Fill == "" {
		t.Fill = DefaultColor
	}
	if t.Size <= 0 {
		t.Size = DefaultFontSize
	}
	switch t.Anchor {
	case AnchorStart, AnchorMiddle, AnchorEnd:
	case "":
		t.Anchor = AnchorStart
	default:
		return nil, fmt.Errorf("text: unknown anchor %q", t.Anchor)
	}
	return &t, nil
}

// Extent returns the label coordinate as a degenerate box.
func (t *Text) Extent() orb.Bound {
	return t.Coord.Bound()
}

// Bound is an invisible box that only widens the map extent.
type Bound struct {
	Coords orb.LineString
}

// NewBound validates a bound.
func NewBound(b Bound) (*Bound, error) {
	if len(b.Coords) == 0 {
		return nil, fmt.Errorf("bound: %w", ErrNoCoordinates)
	}
	return &b, nil
}

// Extent returns the bounding box of the coordinates.
func (b *Bound) Extent() orb.Bound {
	return b.Coords.Bound()
}
