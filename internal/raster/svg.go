package raster

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterize draws one document onto a fresh transparent canvas. The
// document's view box is mapped onto the whole canvas.
func Rasterize(doc []byte, width, height int) (*image.RGBA, error) {
	return RasterizeAll([][]byte{doc}, width, height)
}

// RasterizeAll draws the documents in order onto one shared canvas, so a
// feature set split into several documents paints exactly like a single one.
func RasterizeAll(docs [][]byte, width, height int) (*image.RGBA, error) {
	icons := make([]*oksvg.SvgIcon, len(docs))
	for i, doc := range docs {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(doc), oksvg.StrictErrorMode)
		if err != nil {
			return nil, fmt.Errorf("parse document %d: %w", i, err)
		}
		icon.SetTarget(0, 0, float64(width), float64(height))
		icons[i] = icon
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	for _, icon := range icons {
		icon.Draw(dasher, 1.0)
	}
	return img, nil
}
