package feature

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestNewLineDefaults(t *testing.T) {
	l, err := NewLine(Line{Coords: orb.LineString{{13.4, 52.5}, {13.5, 52.6}}})
	require.NoError(t, err)
	assert.Equal(t, Polygon, l.Type)
	assert.Equal(t, DefaultColor, l.Color)
	assert.Empty(t, l.Fill)
	assert.EqualValues(t, DefaultLineWidth, l.Width)

	l, err = NewLine(Line{Coords: orb.LineString{{0, 0}, {1, 1}}, Type: Polyline, Width: 5})
	require.NoError(t, err)
	assert.Equal(t, Polyline, l.Type)
	assert.EqualValues(t, 5, l.Width)

	_, err = NewLine(Line{})
	assert.True(t, errors.Is(err, ErrNoCoordinates))
}

func TestLineExtent(t *testing.T) {
	l, err := NewLine(Line{Coords: orb.LineString{{10, 50}, {12, 48}, {11, 51}}})
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{10, 48}, Max: orb.Point{12, 51}}, l.Extent())
}

func TestMultiPolygonExtent(t *testing.T) {
	m, err := NewMultiPolygon(MultiPolygon{Coords: []orb.Ring{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		{},
		{{5, -2}, {6, -2}, {6, 3}, {5, -2}},
	}})
	require.NoError(t, err)
	assert.Len(t, m.Coords, 2, "empty rings are dropped")
	assert.Equal(t, orb.Bound{Min: orb.Point{0, -2}, Max: orb.Point{6, 3}}, m.Extent())

	_, err = NewMultiPolygon(MultiPolygon{Coords: []orb.Ring{{}}})
	assert.Error(t, err)
}

func TestCircleExtent(t *testing.T) {
	c, err := NewCircle(Circle{Coord: orb.Point{13.4, 52.5}, Radius: 1000})
	require.NoError(t, err)
	assert.Equal(t, DefaultFill, c.Fill)

	b := c.Extent()
	assert.True(t, b.Contains(c.Coord))
	assert.Less(t, b.Min[0], 13.4)
	assert.Greater(t, b.Max[0], 13.4)
	// one kilometre is roughly 0.009 degrees of latitude
	assert.InDelta(t, 0.009, b.Max[1]-52.5, 0.001)

	_, err = NewCircle(Circle{Coord: orb.Point{0, 0}})
	assert.Error(t, err)
}

func TestMarkerOffsets(t *testing.T) {
	m, err := NewMarker(Marker{Coord: orb.Point{1, 2}, Anchor: Anchor{Width: 20, Height: 30}})
	require.NoError(t, err)
	assert.Equal(t, [4]float64{10, 0, 10, 30}, m.ExtentPx())
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{1, 2}}, m.Extent())

	m, err = NewMarker(Marker{Anchor: Anchor{Width: 20, Height: 30, OffsetX: ptr(0), OffsetY: ptr(5)}})
	require.NoError(t, err)
	assert.Equal(t, [4]float64{0, 25, 20, 5}, m.ExtentPx())

	_, err = NewMarker(Marker{Anchor: Anchor{Width: 20}})
	assert.Error(t, err)
}

func TestNewCustomFigure(t *testing.T) {
	c, err := NewCustomFigure(CustomFigure{Path: "M0 0 L500 500", Anchor: Anchor{Width: 40, Height: 40}})
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, c.Color)
	assert.Equal(t, DefaultFill, c.Fill)
	assert.EqualValues(t, DefaultStrokeWidth, c.StrokeWidth)
	assert.Equal(t, 20.0, *c.OffsetX)
	assert.Equal(t, 40.0, *c.OffsetY)

	_, err = NewCustomFigure(CustomFigure{Path: "M0 0"})
	assert.Error(t, err)
}

func TestNewText(t *testing.T) {
	txt, err := NewText(Text{Coord: orb.Point{1, 1}, Text: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, AnchorStart, txt.Anchor)
	assert.EqualValues(t, DefaultFontSize, txt.Size)

	_, err = NewText(Text{Text: "x", Anchor: "left"})
	assert.Error(t, err)
	_, err = NewText(Text{})
	assert.Error(t, err)
}

func TestBoundExtent(t *testing.T) {
	b, err := NewBound(Bound{Coords: orb.LineString{{-1, -1}, {3, 4}}})
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{3, 4}}, b.Extent())

	_, err = NewBound(Bound{})
	assert.Error(t, err)
}
