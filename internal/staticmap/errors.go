package staticmap

import "fmt"

// ConfigError reports unusable options or an empty map.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RasterError wraps a failure while drawing the overlay.
type RasterError struct {
	Err error
}

func (e *RasterError) Error() string {
	return fmt.Sprintf("rasterize overlay: %v", e.Err)
}

func (e *RasterError) Unwrap() error {
	return e.Err
}

// CompositeError wraps a failure while combining layers or encoding.
type CompositeError struct {
	Err error
}

func (e *CompositeError) Error() string {
	return fmt.Sprintf("compose layers: %v", e.Err)
}

func (e *CompositeError) Unwrap() error {
	return e.Err
}

// FailedTile represents a single tile missing from the base layer
type FailedTile struct {
	URL        string
	StatusCode *int
	Error      string
}
