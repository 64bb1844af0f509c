package tile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

// metersPerPixelEquator is the ground resolution of a 256px tile at zoom 0
// on the equator.
const metersPerPixelEquator = 156543.03392

// Coordinate conversion functions
// http://wiki.openstreetmap.org/wiki/Slippy_map_tilenames

// LonToX converts a longitude to a fractional tile x index at the given zoom.
// Longitudes outside [-180, 180] are folded back into range.
func LonToX(lon float64, zoom int) float64 {
	if !(lon >= -180 && lon <= 180) {
		lon = math.Mod(lon+180, 360) - 180
	}
	return (lon + 180) / 360 * math.Exp2(float64(zoom))
}

// LatToY converts a latitude to a fractional tile y index at the given zoom.
func LatToY(lat float64, zoom int) float64 {
	if !(lat >= -90 && lat <= 90) {
		lat = math.Mod(lat+90, 180) - 90
	}
	latRad := lat * math.Pi / 180
	return (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * math.Exp2(float64(zoom))
}

// XToLon is the inverse of LonToX.
func XToLon(x float64, zoom int) float64 {
	return x/math.Exp2(float64(zoom))*360 - 180
}

// YToLat is the inverse of LatToY.
func YToLat(y float64, zoom int) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y/math.Exp2(float64(zoom))))) / math.Pi * 180
}

// MeterToPixel converts a ground distance at the given latitude to a pixel
// length at the given zoom.
func MeterToPixel(meters float64, zoom int, lat float64) float64 {
	latRad := lat * math.Pi / 180
	metersPerPixel := metersPerPixelEquator * math.Cos(latRad) / math.Exp2(float64(zoom))
	return meters / metersPerPixel
}

// ToPixel places a tile fraction on a canvas of the given dimension centred
// on center. All on-canvas placement goes through here so that adjacent tiles
// and features round identically.
func ToPixel(frac, center float64, tileSize, dim int) int {
	px := (frac-center)*float64(tileSize) + float64(dim)/2
	return int(math.Round(px))
}

// QuadKey returns the Bing style quadkey of a tile.
func QuadKey(x, y, zoom int) string {
	if zoom <= 0 {
		return ""
	}
	k := maptile.New(uint32(x), uint32(y), maptile.Zoom(zoom)).Quadkey()
	s := strconv.FormatUint(k, 4)
	if len(s) < zoom {
		s = strings.Repeat("0", zoom-len(s)) + s
	}
	return s
}

// ParseQuadKey decodes a quadkey back into its tile.
func ParseQuadKey(key string) (maptile.Tile, error) {
	if key == "" {
		return maptile.New(0, 0, 0), nil
	}
	if len(key) > 31 {
		return maptile.Tile{}, fmt.Errorf("quadkey %q too long", key)
	}
	k, err := strconv.ParseUint(key, 4, 64)
	if err != nil {
		return maptile.Tile{}, fmt.Errorf("invalid quadkey %q: %w", key, err)
	}
	return maptile.FromQuadkey(k, maptile.Zoom(len(key))), nil
}
