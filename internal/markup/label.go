package markup

import (
	"github.com/kiesman99/staticmap/internal/feature"
)

// Label is a text feature projected onto the canvas. Labels are drawn with
// a font rasterizer rather than through a document.
type Label struct {
	X, Y   int
	Text   string
	Size   float64
	Color  string
	Fill   string
	Width  float64
	Anchor feature.TextAnchor
}

// Labels projects text features in insertion order.
func Labels(texts []*feature.Text, v View) []Label {
	labels := make([]Label, 0, len(texts))
	for _, t := range texts {
		labels = append(labels, Label{
			X:      v.X(t.Coord.Lon()) + int(t.OffsetX),
			Y:      v.Y(t.Coord.Lat()) + int(t.OffsetY),
			Text:   t.Text,
			Size:   t.Size,
			Color:  t.Color,
			Fill:   t.Fill,
			Width:  t.Width,
			Anchor: t.Anchor,
		})
	}
	return labels
}
