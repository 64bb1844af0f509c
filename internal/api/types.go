// Package api defines the JSON documents exchanged with the HTTP server and
// read from feature files by the CLI.
package api

import (
	"time"

	"github.com/paulmach/orb"
)

// HealthStatus is the state reported by the health endpoint.
type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

// Error codes returned in ErrorResponse.Error.
const (
	ValidationError = "VALIDATION_ERROR"
	InvalidJSON     = "INVALID_JSON"
	RenderError     = "RENDER_ERROR"
	RenderTimeout   = "RENDER_TIMEOUT"
	InternalError   = "INTERNAL_ERROR"
)

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    *int         `json:"uptime,omitempty"`
	Version   *string      `json:"version,omitempty"`
	// Workers is the number of rasterization tasks currently running.
	Workers *int `json:"workers,omitempty"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error     string                  `json:"error"`
	Message   string                  `json:"message"`
	RequestId *string                 `json:"request_id,omitempty"`
	Details   *map[string]interface{} `json:"details,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Code    *string `json:"code,omitempty"`
	Field   string  `json:"field"`
	Message string  `json:"message"`
}

// ValidationErrorResponse defines model for ValidationErrorResponse.
type ValidationErrorResponse struct {
	Error            string       `json:"error"`
	Message          string       `json:"message"`
	RequestId        *string      `json:"request_id,omitempty"`
	ValidationErrors []FieldError `json:"validation_errors"`
}

// TileSource overrides the configured tile server.
type TileSource struct {
	Url        string            `json:"url"`
	Size       *int              `json:"size,omitempty"`
	Subdomains []string          `json:"subdomains,omitempty"`
	ReverseY   *bool             `json:"reverse_y,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// ZoomRange limits automatic zoom selection.
type ZoomRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// RenderRequest defines model for RenderRequest. Center and BBox are given
// as [lon, lat] and [min lon, min lat, max lon, max lat].
type RenderRequest struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	PaddingX   int         `json:"padding_x,omitempty"`
	PaddingY   int         `json:"padding_y,omitempty"`
	Center     *orb.Point  `json:"center,omitempty"`
	BBox       *[4]float64 `json:"bbox,omitempty"`
	Zoom       int         `json:"zoom,omitempty"`
	ZoomRange  *ZoomRange  `json:"zoom_range,omitempty"`
	Format     string      `json:"format,omitempty"`
	Quality    *int        `json:"quality,omitempty"`
	TileSource *TileSource `json:"tile_source,omitempty"`
	Features   Features    `json:"features"`
}

// Features is the overlay content of a map. The same document is accepted
// by the --features flag of the CLI.
type Features struct {
	Lines         []Line         `json:"lines,omitempty"`
	Polygons      []Line         `json:"polygons,omitempty"`
	MultiPolygons []MultiPolygon `json:"multipolygons,omitempty"`
	Circles       []Circle       `json:"circles,omitempty"`
	Markers       []Marker       `json:"markers,omitempty"`
	Customs       []Custom       `json:"customs,omitempty"`
	Texts         []Text         `json:"texts,omitempty"`
	Bounds        []Bound        `json:"bounds,omitempty"`
}

// Line defines model for a polyline or polygon.
type Line struct {
	Coords orb.LineString `json:"coords"`
	Type   string         `json:"type,omitempty"`
	Color  string         `json:"color,omitempty"`
	Fill   string         `json:"fill,omitempty"`
	Width  float64        `json:"width,omitempty"`
}

type MultiPolygon struct {
	Coords []orb.Ring `json:"coords"`
	Color  string     `json:"color,omitempty"`
	Fill   string     `json:"fill,omitempty"`
	Width  float64    `json:"width,omitempty"`
}

// Circle radius is in meters.
type Circle struct {
	Coord  orb.Point `json:"coord"`
	Radius float64   `json:"radius"`
	Color  string    `json:"color,omitempty"`
	Fill   string    `json:"fill,omitempty"`
	Width  float64   `json:"width,omitempty"`
}

type Marker struct {
	Coord   orb.Point `json:"coord"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	OffsetX *float64  `json:"offset_x,omitempty"`
	OffsetY *float64  `json:"offset_y,omitempty"`
}

type Custom struct {
	Coord       orb.Point `json:"coord"`
	Path        string    `json:"path"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	OffsetX     *float64  `json:"offset_x,omitempty"`
	OffsetY     *float64  `json:"offset_y,omitempty"`
	Color       string    `json:"color,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
}

type Text struct {
	Coord   orb.Point `json:"coord"`
	Text    string    `json:"text"`
	Color   string    `json:"color,omitempty"`
	Width   float64   `json:"width,omitempty"`
	Fill    string    `json:"fill,omitempty"`
	Size    float64   `json:"size,omitempty"`
	Anchor  string    `json:"anchor,omitempty"`
	OffsetX float64   `json:"offset_x,omitempty"`
	OffsetY float64   `json:"offset_y,omitempty"`
}

type Bound struct {
	Coords orb.LineString `json:"coords"`
}

// StaticMapParams defines parameters for GetStaticMap.
type StaticMapParams struct {
	Center  *string `form:"center,omitempty" json:"center,omitempty"`
	BBox    *string `form:"bbox,omitempty" json:"bbox,omitempty"`
	Zoom    *int    `form:"zoom,omitempty" json:"zoom,omitempty"`
	Width   int     `form:"width" json:"width"`
	Height  int     `form:"height" json:"height"`
	Format  *string `form:"format,omitempty" json:"format,omitempty"`
	Markers *string `form:"markers,omitempty" json:"markers,omitempty"`
	Path    *string `form:"path,omitempty" json:"path,omitempty"`
}
