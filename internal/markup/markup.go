// Package markup turns overlay features into SVG documents sized to the
// canvas, ready for rasterization.
package markup

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/kiesman99/staticmap/internal/feature"
	"github.com/kiesman99/staticmap/pkg/tile"
)

// ChunkSize is the number of features serialized into one document.
const ChunkSize = 1000

// figureViewBox is the edge length of the coordinate space custom figure
// paths are drawn in.
const figureViewBox = 500

// View is the render-time projection of the canvas.
type View struct {
	Width, Height    int
	Zoom             int
	CenterX, CenterY float64
	TileSize         int
}

// X places a longitude on the canvas.
func (v View) X(lon float64) int {
	return tile.ToPixel(tile.LonToX(lon, v.Zoom), v.CenterX, v.TileSize, v.Width)
}

// Y places a latitude on the canvas.
func (v View) Y(lat float64) int {
	return tile.ToPixel(tile.LatToY(lat, v.Zoom), v.CenterY, v.TileSize, v.Height)
}

// Line renders a line as a polygon or polyline element.
func Line(l *feature.Line, v View) string {
	pts := make([]string, len(l.Coords))
	for i, c := range l.Coords {
		pts[i] = strconv.Itoa(v.X(c.Lon())) + "," + strconv.Itoa(v.Y(c.Lat()))
	}

	el := "polygon"
	if l.Type == feature.Polyline {
		el = "polyline"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<%s points="%s"`, el, strings.Join(pts, " "))
	writePaint(&b, l.Color, fillOrNone(l.Fill), l.Width)
	b.WriteString("/>")
	return b.String()
}

// MultiPolygon renders all rings of a multipolygon as one even-odd path.
func MultiPolygon(m *feature.MultiPolygon, v View) string {
	var d strings.Builder
	for _, ring := range m.Coords {
		for i, c := range ring {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&d, "%s %d %d ", cmd, v.X(c.Lon()), v.Y(c.Lat()))
		}
		d.WriteString("Z ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<path d="%s" fill-rule="evenodd"`, strings.TrimSpace(d.String()))
	writePaint(&b, m.Color, fillOrNone(m.Fill), m.Width)
	b.WriteString("/>")
	return b.String()
}

// Circle renders a circle with its ground radius converted at its own latitude.
func Circle(c *feature.Circle, v View) string {
	r := tile.MeterToPixel(c.Radius, v.Zoom, c.Coord.Lat())

	var b strings.Builder
	fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%s"`, v.X(c.Coord.Lon()), v.Y(c.Coord.Lat()), num(r))
	writePaint(&b, c.Color, fillOrNone(c.Fill), c.Width)
	b.WriteString("/>")
	return b.String()
}

// Custom renders a custom figure. The path lives in a 500x500 box scaled to
// the figure size times zoom/4 and is placed at the anchor minus the scaled
// offset. The box is fitted preserving its aspect ratio and centred.
func Custom(c *feature.CustomFigure, v View) string {
	scale := float64(v.Zoom) / 4
	w := math.Floor(c.Width * scale)
	h := math.Floor(c.Height * scale)
	x := float64(v.X(c.Coord.Lon())) - math.Floor(*c.OffsetX*scale)
	y := float64(v.Y(c.Coord.Lat())) - math.Floor(*c.OffsetY*scale)

	s := math.Min(w, h) / figureViewBox
	tx := x + (w-figureViewBox*s)/2
	ty := y + (h-figureViewBox*s)/2

	var b strings.Builder
	fmt.Fprintf(&b, `<g transform="translate(%s %s) scale(%s)">`, num(tx), num(ty), num(s))
	fmt.Fprintf(&b, `<path d="%s"`, html.EscapeString(c.Path))
	writePaint(&b, c.Color, fillOrNone(c.Fill), c.StrokeWidth)
	b.WriteString("/></g>")
	return b.String()
}

// Document wraps elements in a canvas sized svg root.
func Document(v View, elements []string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d">`,
		v.Width, v.Height, v.Width, v.Height)
	buf.WriteByte('\n')
	for _, el := range elements {
		buf.WriteString(el)
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Documents splits elements into documents of at most size elements each.
// A non-positive size uses ChunkSize. No elements yield no documents.
func Documents(v View, elements []string, size int) [][]byte {
	if size <= 0 {
		size = ChunkSize
	}
	var docs [][]byte
	for i := 0; i < len(elements); i += size {
		docs = append(docs, Document(v, elements[i:min(i+size, len(elements))]))
	}
	return docs
}

func fillOrNone(fill string) string {
	if fill == "" {
		return "none"
	}
	return fill
}

// writePaint emits stroke and fill attributes. Colours with an alpha channel
// are split into a plain colour and an opacity attribute.
func writePaint(b *strings.Builder, stroke, fill string, width float64) {
	sc, so := SplitAlpha(stroke)
	fc, fo := SplitAlpha(fill)

	fmt.Fprintf(b, ` stroke="%s"`, html.EscapeString(sc))
	if so != "" {
		fmt.Fprintf(b, ` stroke-opacity="%s"`, so)
	}
	fmt.Fprintf(b, ` fill="%s"`, html.EscapeString(fc))
	if fo != "" {
		fmt.Fprintf(b, ` fill-opacity="%s"`, fo)
	}
	fmt.Fprintf(b, ` stroke-width="%s"`, num(width))
}

// SplitAlpha turns #RGBA and #RRGGBBAA into #RRGGBB plus an opacity.
// Other colour forms are returned unchanged.
func SplitAlpha(c string) (string, string) {
	hex := strings.TrimPrefix(c, "#")
	if hex == c {
		return c, ""
	}
	switch len(hex) {
	case 4:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	case 8:
	default:
		return c, ""
	}

	a, err := strconv.ParseUint(hex[6:], 16, 8)
	if err != nil {
		return c, ""
	}
	return "#" + hex[:6], strconv.FormatFloat(float64(a)/255, 'f', 3, 64)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
