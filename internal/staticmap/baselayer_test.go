package staticmap

import (
	"errors"
	"image"
	"image/color"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/staticmap/pkg/tile"
)

func TestAssembleBaseClipsTiles(t *testing.T) {
	red := solidPNG(t, 256, color.RGBA{R: 255, A: 255})
	green := solidPNG(t, 256, color.RGBA{G: 255, A: 255})

	results := []tile.Result{
		// hangs over the top-left corner
		{OK: true, URL: "a", Box: image.Rect(-200, -100, 56, 156), Data: red},
		// hangs over the right edge
		{OK: true, URL: "b", Box: image.Rect(56, -100, 312, 156), Data: green},
		// entirely off canvas
		{OK: true, URL: "c", Box: image.Rect(400, 0, 656, 256), Data: red},
	}

	base, failed := AssembleBase(results, 100, 80, quietLogger())
	require.Empty(t, failed)
	assert.Equal(t, image.Rect(0, 0, 100, 80), base.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, base.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, base.RGBAAt(55, 79))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, base.RGBAAt(56, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, base.RGBAAt(99, 79))
}

func TestAssembleBaseReportsFailures(t *testing.T) {
	ok := solidPNG(t, 256, color.RGBA{B: 255, A: 255})
	small := solidPNG(t, 16, color.RGBA{B: 255, A: 255})

	results := []tile.Result{
		{OK: true, URL: "good", Box: image.Rect(0, 0, 256, 256), Data: ok},
		{URL: "status", Box: image.Rect(256, 0, 512, 256), Err: &tile.FetchError{URL: "status", StatusCode: http.StatusNotFound, Err: errors.New("not found")}},
		{OK: true, URL: "garbage", Box: image.Rect(0, 256, 256, 512), Data: []byte("not an image")},
		{OK: true, URL: "small", Box: image.Rect(256, 256, 512, 512), Data: small},
	}

	base, failed := AssembleBase(results, 512, 512, quietLogger())
	require.Len(t, failed, 2)

	assert.Equal(t, "status", failed[0].URL)
	require.NotNil(t, failed[0].StatusCode)
	assert.Equal(t, http.StatusNotFound, *failed[0].StatusCode)
	assert.Equal(t, "garbage", failed[1].URL)
	assert.Nil(t, failed[1].StatusCode)

	assert.Equal(t, color.RGBA{B: 255, A: 255}, base.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, base.RGBAAt(300, 10))
	// a smaller tile covers only its own size
	assert.Equal(t, color.RGBA{B: 255, A: 255}, base.RGBAAt(270, 270))
	assert.Equal(t, color.RGBA{}, base.RGBAAt(300, 300))
}

func TestAssembleBaseOddBoxWidth(t *testing.T) {
	// rounding can make a box one pixel wider than the tile
	data := solidPNG(t, 256, color.RGBA{R: 9, A: 255})
	results := []tile.Result{{OK: true, Box: image.Rect(-1, 0, 256, 256), Data: data}}

	base, failed := AssembleBase(results, 300, 256, quietLogger())
	require.Empty(t, failed)
	assert.Equal(t, color.RGBA{R: 9, A: 255}, base.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 9, A: 255}, base.RGBAAt(254, 0))
	assert.Equal(t, color.RGBA{}, base.RGBAAt(255, 0))
}

func TestAssembleBaseOversizedTile(t *testing.T) {
	// high resolution tile servers return 512px tiles for 256px boxes
	data := solidPNG(t, 512, color.RGBA{R: 255, A: 255})
	results := []tile.Result{{OK: true, URL: "retina", Box: image.Rect(0, 0, 256, 256), Data: data}}

	base, failed := AssembleBase(results, 256, 256, quietLogger())
	require.Empty(t, failed)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, base.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, base.RGBAAt(255, 255))
}
