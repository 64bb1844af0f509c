package staticmap

import (
	"bytes"
	"image"

	"github.com/paulmach/orb"
	"github.com/spf13/afero"

	"github.com/kiesman99/staticmap/internal/surface"
)

// Image is a rendered map.
type Image struct {
	*image.RGBA
	Zoom   int
	Center orb.Point
	// FailedTiles lists the base layer tiles that could not be placed.
	FailedTiles []FailedTile

	quality int
}

// Bytes encodes the image for the given media type. Unknown types encode
// as PNG.
func (i *Image) Bytes(mime string) ([]byte, error) {
	var buf bytes.Buffer
	if err := surface.Encode(&buf, i.RGBA, surface.FormatFromMime(mime), i.quality); err != nil {
		return nil, &CompositeError{Err: err}
	}
	return buf.Bytes(), nil
}

// Save writes the image to path, choosing the format from its extension.
func (i *Image) Save(path string) error {
	return i.SaveFs(afero.NewOsFs(), path)
}

// SaveFs writes the image to path on fs.
func (i *Image) SaveFs(fs afero.Fs, path string) error {
	var buf bytes.Buffer
	if err := surface.Encode(&buf, i.RGBA, surface.FormatFromExt(path), i.quality); err != nil {
		return &CompositeError{Err: err}
	}
	return afero.WriteFile(fs, path, buf.Bytes(), 0o644)
}
