package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Compact marker size used when markers are given as bare coordinates.
const (
	MarkerWidth  = 32
	MarkerHeight = 32
)

// ParsePoint parses "lon,lat".
func ParsePoint(s string) (orb.Point, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return orb.Point{v[0], v[1]}, nil
}

// ParseCoords parses "lon,lat;lon,lat;...".
func ParseCoords(s string) (orb.LineString, error) {
	var ls orb.LineString
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePoint(part)
		if err != nil {
			return nil, err
		}
		ls = append(ls, p)
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("no coordinates in %q", s)
	}
	return ls, nil
}

// ParseBBox parses "minlon,minlat,maxlon,maxlat".
func ParseBBox(s string) (orb.Bound, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("bbox %q: %w", s, err)
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox %q: minimum exceeds maximum", s)
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

// ParseMarkers parses "lon,lat;lon,lat" into markers of the compact size.
func ParseMarkers(s string) ([]Marker, error) {
	coords, err := ParseCoords(s)
	if err != nil {
		return nil, err
	}
	markers := make([]Marker, len(coords))
	for i, c := range coords {
		markers[i] = Marker{Coord: c, Width: MarkerWidth, Height: MarkerHeight}
	}
	return markers, nil
}

// ParseCircle parses "lon,lat,radius" with the radius in meters.
func ParseCircle(s string) (Circle, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return Circle{}, fmt.Errorf("circle %q: %w", s, err)
	}
	return Circle{Coord: orb.Point{v[0], v[1]}, Radius: v[2]}, nil
}

// ParseText parses "lon,lat,label". The label may contain commas.
func ParseText(s string) (Text, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Text{}, fmt.Errorf("text %q: expected lon,lat,label", s)
	}
	p, err := ParsePoint(parts[0] + "," + parts[1])
	if err != nil {
		return Text{}, err
	}
	return Text{Coord: p, Text: parts[2]}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers", n)
	}
	v := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return v, nil
}
