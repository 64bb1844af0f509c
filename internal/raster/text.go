package raster

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/srwiley/oksvg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kiesman99/staticmap/internal/feature"
	"github.com/kiesman99/staticmap/internal/markup"
)

var (
	defaultFontOnce sync.Once
	defaultFont     *truetype.Font
	defaultFontErr  error
)

// DefaultFont returns the bundled Go Regular face.
func DefaultFont() (*truetype.Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = freetype.ParseFont(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// TextRenderer draws labels with a TrueType font.
type TextRenderer struct {
	font *truetype.Font
}

// NewTextRenderer creates a renderer. A nil font selects DefaultFont.
func NewTextRenderer(f *truetype.Font) *TextRenderer {
	return &TextRenderer{font: f}
}

// Draw renders labels onto dst in order. A label with a positive width gets
// an outline in its stroke colour below the fill.
func (tr *TextRenderer) Draw(dst *image.RGBA, labels []markup.Label) error {
	f := tr.font
	if f == nil {
		var err error
		if f, err = DefaultFont(); err != nil {
			return fmt.Errorf("load font: %w", err)
		}
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)

	for _, l := range labels {
		fill, err := parseColor(l.Fill)
		if err != nil {
			return fmt.Errorf("label %q fill: %w", l.Text, err)
		}
		stroke, err := parseColor(l.Color)
		if err != nil {
			return fmt.Errorf("label %q color: %w", l.Text, err)
		}

		ctx.SetFontSize(l.Size)
		x := l.X - alignOffset(f, l)

		if l.Width > 0 && stroke != nil {
			ctx.SetSrc(image.NewUniform(stroke))
			w := int(l.Width + 0.5)
			for _, d := range [][2]int{{-w, 0}, {w, 0}, {0, -w}, {0, w}, {-w, -w}, {w, w}, {-w, w}, {w, -w}} {
				if _, err := ctx.DrawString(l.Text, freetype.Pt(x+d[0], l.Y+d[1])); err != nil {
					return err
				}
			}
		}
		if fill != nil {
			ctx.SetSrc(image.NewUniform(fill))
			if _, err := ctx.DrawString(l.Text, freetype.Pt(x, l.Y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// alignOffset is the distance from the anchor to the start of the text.
func alignOffset(f *truetype.Font, l markup.Label) int {
	if l.Anchor == feature.AnchorStart || l.Anchor == "" {
		return 0
	}
	face := truetype.NewFace(f, &truetype.Options{Size: l.Size, DPI: 72})
	defer face.Close()

	adv := font.MeasureString(face, l.Text)
	if l.Anchor == feature.AnchorMiddle {
		adv /= 2
	}
	return adv.Round()
}

// parseColor accepts the same colour forms as the documents, including
// trailing alpha. "none" yields nil.
func parseColor(s string) (color.Color, error) {
	hex, opacity := markup.SplitAlpha(s)
	c, err := oksvg.ParseSVGColor(hex)
	if err != nil || c == nil {
		return nil, err
	}
	if opacity == "" {
		return c, nil
	}

	a, err := strconv.ParseFloat(opacity, 64)
	if err != nil {
		return nil, err
	}
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a*255 + 0.5)}, nil
}
