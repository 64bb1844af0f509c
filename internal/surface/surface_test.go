package surface

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestNewIsTransparent(t *testing.T) {
	img := New(3, 2)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	for _, v := range img.Pix {
		assert.Zero(t, v)
	}
}

func TestDecodeFormats(t *testing.T) {
	src := solid(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	var pngBuf, jpegBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))
	require.NoError(t, jpeg.Encode(&jpegBuf, src, nil))

	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "jpeg": jpegBuf.Bytes()} {
		t.Run(name, func(t *testing.T) {
			img, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, 8, img.Bounds().Dx())
			assert.Equal(t, 8, img.Bounds().Dy())
		})
	}

	_, err := Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestExtractRegion(t *testing.T) {
	img := solid(10, 10, color.RGBA{G: 255, A: 255})
	img.SetRGBA(5, 6, color.RGBA{R: 255, A: 255})

	part, err := ExtractRegion(img, image.Rect(5, 6, 8, 10))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 4), part.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, part.At(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, part.At(1, 0))

	_, err = ExtractRegion(img, image.Rect(5, 5, 11, 6))
	assert.Error(t, err)
	_, err = ExtractRegion(img, image.Rect(5, 5, 5, 6))
	assert.Error(t, err)
}

func TestCompositeOver(t *testing.T) {
	base := solid(4, 4, color.RGBA{B: 255, A: 255})
	overlay := New(4, 4)
	overlay.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})

	out := CompositeOver(base, []Placement{{Image: overlay}})

	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(0, 0), "transparent overlay pixels keep the base")
	assert.Equal(t, color.RGBA{B: 255, A: 255}, base.RGBAAt(1, 1), "base is not mutated")
}

func TestCompositeOverOffsets(t *testing.T) {
	base := New(6, 6)
	part := solid(2, 2, color.RGBA{R: 255, A: 255})

	out := CompositeOver(base, []Placement{{Image: part, Left: 3, Top: 4}})

	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(3, 4))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(4, 5))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(2, 4))
}

func TestEncode(t *testing.T) {
	img := solid(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	testCases := []struct {
		format Format
		magic  []byte
	}{
		{PNG, []byte{0x89, 0x50, 0x4E, 0x47}},
		{JPEG, []byte{0xFF, 0xD8}},
		{GIF, []byte("GIF8")},
	}
	for _, tc := range testCases {
		t.Run(string(tc.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, tc.format, 90))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), tc.magic))
		})
	}

	err := Encode(&bytes.Buffer{}, img, WEBP, 0)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, PNG, FormatFromExt("out.png"))
	assert.Equal(t, JPEG, FormatFromExt("out.JPG"))
	assert.Equal(t, JPEG, FormatFromExt("/tmp/out.jpeg"))
	assert.Equal(t, WEBP, FormatFromExt("out.webp"))
	assert.Equal(t, PNG, FormatFromExt("out"))
	assert.Equal(t, JPEG, FormatFromMime("image/jpg"))
	assert.Equal(t, "image/png", PNG.Mime())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPG")
	assert.NoError(t, err)
	assert.Equal(t, JPEG, f)
	assert.True(t, f.Encodable())

	f, err = ParseFormat("webp")
	assert.NoError(t, err)
	assert.False(t, f.Encodable())

	_, err = ParseFormat("tiff")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
