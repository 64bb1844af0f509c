package tile

import (
	"image"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

// Source describes where tiles come from.
type Source struct {
	// URL is a template with {z}, {x}, {y}, {s} or {quadkey} placeholders.
	URL        string
	Subdomains []string
	// ReverseY flips the vertical axis for TMS style servers.
	ReverseY bool
	Size     int
}

// Viewport is the canvas in tile-fraction space.
type Viewport struct {
	Zoom             int
	CenterX, CenterY float64
	Width, Height    int
}

// PlanGrid computes the tiles covering the viewport. Indices are wrapped into
// the valid range for the remote lookup only; destination boxes use the
// unwrapped indices.
func PlanGrid(src Source, vp Viewport) []Plan {
	size := src.Size
	if size <= 0 {
		size = DefaultSize
	}

	halfW := 0.5 * float64(vp.Width) / float64(size)
	halfH := 0.5 * float64(vp.Height) / float64(size)
	xMin := int(math.Floor(vp.CenterX - halfW))
	yMin := int(math.Floor(vp.CenterY - halfH))
	xMax := int(math.Ceil(vp.CenterX + halfW))
	yMax := int(math.Ceil(vp.CenterY + halfH))

	maxTile := 1 << vp.Zoom
	plans := make([]Plan, 0, (xMax-xMin)*(yMax-yMin))

	for x := xMin; x < xMax; x++ {
		for y := yMin; y < yMax; y++ {
			// x and y may have crossed the date line
			tileX := wrap(x, maxTile)
			tileY := wrap(y, maxTile)
			if src.ReverseY {
				tileY = maxTile - 1 - tileY
			}

			plans = append(plans, Plan{
				Tile: maptile.New(uint32(tileX), uint32(tileY), maptile.Zoom(vp.Zoom)),
				URL:  src.BuildURL(vp.Zoom, tileX, tileY),
				Key:  Key{Size: size, Zoom: vp.Zoom, X: x, Y: y},
				Box: image.Rect(
					ToPixel(float64(x), vp.CenterX, size, vp.Width),
					ToPixel(float64(y), vp.CenterY, size, vp.Height),
					ToPixel(float64(x+1), vp.CenterX, size, vp.Width),
					ToPixel(float64(y+1), vp.CenterY, size, vp.Height),
				),
			})
		}
	}

	return plans
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// BuildURL replaces URL template tokens
func (s Source) BuildURL(zoom, x, y int) string {
	url := s.URL
	if strings.Contains(url, "{quadkey}") {
		url = strings.ReplaceAll(url, "{quadkey}", QuadKey(x, y, zoom))
	} else {
		url = strings.NewReplacer(
			"{z}", strconv.Itoa(zoom),
			"{x}", strconv.Itoa(x),
			"{y}", strconv.Itoa(y),
		).Replace(url)
	}
	if len(s.Subdomains) > 0 {
		url = strings.ReplaceAll(url, "{s}", s.Subdomains[rand.Intn(len(s.Subdomains))])
	}
	return url
}
