package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/oapi-codegen/runtime"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"

	"github.com/kiesman99/staticmap/internal/api"
	"github.com/kiesman99/staticmap/internal/raster"
	"github.com/kiesman99/staticmap/internal/staticmap"
)

// DefaultMaxSize caps the width and height of a rendered map.
const DefaultMaxSize = 4096

// Server implements the static map HTTP API
type Server struct {
	startTime time.Time
	version   string
	base      staticmap.Options
	pool      *raster.Pool
	logger    logrus.FieldLogger

	// MaxSize caps the canvas edge length of a request.
	MaxSize int
	// AllowTileSource lets requests choose their own tile server.
	AllowTileSource bool
}

// NewServer creates a new server instance. Every request renders with base
// as its starting options; all requests share one rasterization pool.
func NewServer(version string, base staticmap.Options, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	base.Logger = logger
	if base.Pool == nil {
		base.Pool = raster.NewPool(base.Workers, logger)
	}

	return &Server{
		startTime: time.Now(),
		version:   version,
		base:      base,
		pool:      base.Pool,
		logger:    logger,
		MaxSize:   DefaultMaxSize,
	}
}

// Close waits for running rasterization tasks.
func (s *Server) Close() {
	s.pool.Close()
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())
	workers := s.pool.Running()

	response := api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
		Workers:   &workers,
	}

	writeJSON(w, r, http.StatusOK, response)
}

// PostRender renders a map described by a JSON body.
func (s *Server) PostRender(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID(r)

	var req api.RenderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, api.InvalidJSON,
			"Invalid JSON in request body", &requestID, nil)
		return
	}

	s.render(w, r, &req, requestID)
}

// GetStaticMap renders a map described by query parameters.
func (s *Server) GetStaticMap(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID(r)

	var params api.StaticMapParams
	query := r.URL.Query()
	bindings := []struct {
		name     string
		required bool
		dest     interface{}
	}{
		{"center", false, &params.Center},
		{"bbox", false, &params.BBox},
		{"zoom", false, &params.Zoom},
		{"width", true, &params.Width},
		{"height", true, &params.Height},
		{"format", false, &params.Format},
		{"markers", false, &params.Markers},
		{"path", false, &params.Path},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, b.required, b.name, query, b.dest); err != nil {
			s.writeValidationErrorResponse(w, r, []api.FieldError{{Field: b.name, Message: err.Error()}}, &requestID)
			return
		}
	}

	req, fieldErr := requestFromParams(params)
	if fieldErr != nil {
		s.writeValidationErrorResponse(w, r, []api.FieldError{*fieldErr}, &requestID)
		return
	}

	s.render(w, r, req, requestID)
}

func requestFromParams(params api.StaticMapParams) (*api.RenderRequest, *api.FieldError) {
	req := &api.RenderRequest{Width: params.Width, Height: params.Height}
	if params.Zoom != nil {
		req.Zoom = *params.Zoom
	}
	if params.Format != nil {
		req.Format = *params.Format
	}
	if params.Center != nil {
		c, err := api.ParsePoint(*params.Center)
		if err != nil {
			return nil, &api.FieldError{Field: "center", Message: err.Error()}
		}
		req.Center = &c
	}
	if params.BBox != nil {
		b, err := api.ParseBBox(*params.BBox)
		if err != nil {
			return nil, &api.FieldError{Field: "bbox", Message: err.Error()}
		}
		req.BBox = &[4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
	}
	if params.Markers != nil {
		markers, err := api.ParseMarkers(*params.Markers)
		if err != nil {
			return nil, &api.FieldError{Field: "markers", Message: err.Error()}
		}
		req.Features.Markers = markers
	}
	if params.Path != nil {
		coords, err := api.ParseCoords(*params.Path)
		if err != nil {
			return nil, &api.FieldError{Field: "path", Message: err.Error()}
		}
		req.Features.Lines = []api.Line{{Coords: coords, Type: "polyline"}}
	}
	return req, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, req *api.RenderRequest, requestID string) {
	log := s.logger.WithField("request_id", requestID)

	errs := req.Validate(s.MaxSize)
	if req.TileSource != nil && !s.AllowTileSource {
		errs = append(errs, api.FieldError{Field: "tile_source", Message: "custom tile sources are disabled"})
	}
	if len(errs) > 0 {
		s.writeValidationErrorResponse(w, r, errs, &requestID)
		return
	}

	m, err := staticmap.New(req.Options(s.base))
	if err != nil {
		s.handleRenderError(w, r, err, &requestID)
		return
	}
	defer m.Close()

	if err := req.Features.Apply(m); err != nil {
		s.writeValidationErrorResponse(w, r, []api.FieldError{{Field: "features", Message: err.Error()}}, &requestID)
		return
	}

	start := time.Now()
	img, err := m.Render(r.Context(), req.View())
	if err != nil {
		s.handleRenderError(w, r, err, &requestID)
		return
	}

	mime := req.Mime()
	data, err := img.Bytes(mime)
	if err != nil {
		s.handleRenderError(w, r, err, &requestID)
		return
	}

	log.WithFields(logrus.Fields{
		"zoom":         img.Zoom,
		"failed_tiles": len(img.FailedTiles),
		"took":         time.Since(start),
	}).Info("Map served")

	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("X-Map-Zoom", strconv.Itoa(img.Zoom))
	w.Header().Set("X-Failed-Tiles", strconv.Itoa(len(img.FailedTiles)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.WithError(err).Warn("Error writing response")
	}
}

// handleRenderError maps render errors to responses
func (s *Server) handleRenderError(w http.ResponseWriter, r *http.Request, err error, requestID *string) {
	var (
		cfgErr    *staticmap.ConfigError
		rasterErr *staticmap.RasterError
		compErr   *staticmap.CompositeError
	)

	switch {
	case errors.As(err, &cfgErr):
		s.writeValidationErrorResponse(w, r, []api.FieldError{{Field: cfgErr.Field, Message: cfgErr.Message}}, requestID)
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, r, http.StatusGatewayTimeout, api.RenderTimeout,
			"Rendering timed out", requestID, nil)
	case errors.Is(err, context.Canceled):
		s.logger.WithField("request_id", *requestID).Debug("Client went away")
	case errors.As(err, &rasterErr), errors.As(err, &compErr):
		s.logger.WithField("request_id", *requestID).WithError(err).Error("Render failed")
		s.writeErrorResponse(w, r, http.StatusInternalServerError, api.RenderError,
			err.Error(), requestID, nil)
	default:
		s.logger.WithField("request_id", *requestID).WithError(err).Error("Internal error")
		s.writeErrorResponse(w, r, http.StatusInternalServerError, api.InternalError,
			"Internal server error", requestID, nil)
	}
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}
	if details != nil {
		response.Details = &details
	}

	writeJSON(w, r, statusCode, response)
}

// writeValidationErrorResponse writes a validation error response
func (s *Server) writeValidationErrorResponse(w http.ResponseWriter, r *http.Request, errs []api.FieldError, requestID *string) {
	response := api.ValidationErrorResponse{
		Error:            api.ValidationError,
		Message:          errs[0].Message,
		RequestId:        requestID,
		ValidationErrors: errs,
	}
	if len(errs) > 1 {
		response.Message = fmt.Sprintf("%s (and %d more)", errs[0].Message, len(errs)-1)
	}

	writeJSON(w, r, http.StatusBadRequest, response)
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, v)
}

// generateRequestID generates a short unique request ID, falling back to
// the ID assigned by the router middleware.
func generateRequestID(r *http.Request) string {
	id, err := shortid.Generate()
	if err != nil {
		return middleware.GetReqID(r.Context())
	}
	return "req_" + id
}
