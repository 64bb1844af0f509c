// Package surface is the raster side of the renderer: decoding tiles,
// cutting regions, alpha compositing and encoding the final image.
package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	WEBP Format = "webp"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 100

// ErrUnsupportedFormat is returned when encoding to a format without an encoder.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Placement positions an image on a surface.
type Placement struct {
	Image     image.Image
	Left, Top int
}

// New creates a fully transparent surface.
func New(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Decode detects the image format and decodes
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return img, nil
}

// ExtractRegion returns the part of img inside r, where r is relative to the
// top-left corner of img.
func ExtractRegion(img image.Image, r image.Rectangle) (image.Image, error) {
	b := img.Bounds()
	abs := r.Add(b.Min)
	if abs.Empty() || !abs.In(b) {
		return nil, fmt.Errorf("region %v outside of %dx%d image", r, b.Dx(), b.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, abs.Dx(), abs.Dy()))
	draw.Draw(dst, dst.Bounds(), img, abs.Min, draw.Src)
	return dst, nil
}

// CompositeOver alpha-composites the placements over a copy of base, in order.
func CompositeOver(base image.Image, parts []Placement) *image.RGBA {
	b := base.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), base, b.Min, draw.Src)

	for _, p := range parts {
		sb := p.Image.Bounds()
		r := image.Rect(p.Left, p.Top, p.Left+sb.Dx(), p.Top+sb.Dy())
		draw.Draw(dst, r, p.Image, sb.Min, draw.Over)
	}
	return dst
}

// ParseFormat resolves a format name such as "png" or "jpg".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "png", "":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "webp":
		return WEBP, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// FormatFromExt picks the output format from a file name. Unknown
// extensions fall back to PNG.
func FormatFromExt(filename string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
	if err != nil {
		return PNG
	}
	return f
}

// FormatFromMime picks the output format from a media type.
func FormatFromMime(mime string) Format {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return JPEG
	case "image/gif":
		return GIF
	case "image/webp":
		return WEBP
	default:
		return PNG
	}
}

// Mime returns the media type of the format.
func (f Format) Mime() string {
	return "image/" + string(f)
}

// Encodable reports whether Encode supports the format.
func (f Format) Encodable() bool {
	return f == PNG || f == JPEG || f == GIF
}

// Encode writes img in the given format. Quality only applies to JPEG.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	switch format {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case GIF:
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
