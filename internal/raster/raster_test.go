package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/staticmap/internal/feature"
	"github.com/kiesman99/staticmap/internal/markup"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func square(fill string, x0, y0, x1, y1 int) string {
	return fmt.Sprintf(`<polygon points="%d,%d %d,%d %d,%d %d,%d" stroke="none" fill="%s" stroke-width="0"/>`,
		x0, y0, x1, y0, x1, y1, x0, y1, fill)
}

func TestRasterize(t *testing.T) {
	v := markup.View{Width: 64, Height: 64}
	doc := markup.Document(v, []string{square("#FF0000", 10, 10, 50, 50)})

	img, err := Rasterize(doc, 64, 64)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(30, 30))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(2, 2), "outside of shapes stays transparent")
}

func TestRasterizeMalformed(t *testing.T) {
	_, err := Rasterize([]byte(`<svg width="4" height="4"><path d="M0 0"</svg>`), 4, 4)
	assert.Error(t, err)
}

func TestRasterizeAllMatchesSingleDocument(t *testing.T) {
	v := markup.View{Width: 64, Height: 64}
	elements := make([]string, 1500)
	for i := range elements {
		elements[i] = fmt.Sprintf(`<circle cx="%d" cy="%d" r="20" stroke="none" fill="#FF0000" fill-opacity="0.1"/>`, 20+i%24, 20+i%17)
	}

	single, err := RasterizeAll(markup.Documents(v, elements, 100000), 64, 64)
	require.NoError(t, err)
	docs := markup.Documents(v, elements, 1000)
	require.Len(t, docs, 2)
	chunked, err := RasterizeAll(docs, 64, 64)
	require.NoError(t, err)

	assert.Equal(t, single.Pix, chunked.Pix)
}

func TestPoolCompositesLayersInOrder(t *testing.T) {
	pool := NewPool(1, quietLogger())
	defer pool.Close()

	v := markup.View{Width: 64, Height: 64}
	task := Task{
		Width:  64,
		Height: 64,
		Layers: []Layer{
			{Class: "lines", Docs: [][]byte{markup.Document(v, []string{square("#FF0000", 10, 10, 40, 40)})}},
			{Class: "circles"},
			{Class: "custom", Docs: [][]byte{
				markup.Document(v, []string{square("#0000FF", 30, 30, 60, 60)}),
				markup.Document(v, []string{square("#00FF00", 50, 50, 60, 60)}),
			}},
		},
	}

	img, err := pool.Submit(context.Background(), task).Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(35, 35), "later layers are drawn on top")
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(55, 55), "later chunks are drawn on top")
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))
}

func TestPoolPropagatesRasterErrors(t *testing.T) {
	pool := NewPool(1, quietLogger())
	defer pool.Close()

	task := Task{Width: 8, Height: 8, Layers: []Layer{{Class: "lines", Docs: [][]byte{[]byte("<svg><path</svg>")}}}}
	_, err := pool.Submit(context.Background(), task).Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lines: parse document 0")
}

func TestPoolCancelled(t *testing.T) {
	pool := NewPool(1, quietLogger())
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := markup.View{Width: 8, Height: 8}
	task := Task{Width: 8, Height: 8, Layers: []Layer{{Class: "lines", Docs: [][]byte{markup.Document(v, nil)}}}}
	_, err := pool.Submit(ctx, task).Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolRejectsEmptyCanvas(t *testing.T) {
	pool := NewPool(0, nil)
	defer pool.Close()

	_, err := pool.Submit(context.Background(), Task{}).Wait(context.Background())
	assert.Error(t, err)
}

func TestTextRendererDrawsLabels(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 120, 40))
	labels := []markup.Label{{X: 10, Y: 25, Text: "Berlin", Size: 16, Color: "#FFFFFF", Fill: "#000000", Width: 1, Anchor: feature.AnchorStart}}

	require.NoError(t, NewTextRenderer(nil).Draw(dst, labels))

	var painted int
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] > 0 {
			painted++
		}
	}
	assert.Greater(t, painted, 20)
}

func TestTextAnchors(t *testing.T) {
	f, err := DefaultFont()
	require.NoError(t, err)

	start := alignOffset(f, markup.Label{Text: "Berlin", Size: 16, Anchor: feature.AnchorStart})
	middle := alignOffset(f, markup.Label{Text: "Berlin", Size: 16, Anchor: feature.AnchorMiddle})
	end := alignOffset(f, markup.Label{Text: "Berlin", Size: 16, Anchor: feature.AnchorEnd})

	assert.Zero(t, start)
	assert.Greater(t, middle, 0)
	assert.InDelta(t, end, 2*middle, 1)
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#FF000080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, c)

	c, err = parseColor("none")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = parseColor("#12")
	assert.Error(t, err)
}
