// Package server exposes the fractal engine over HTTP.
//
// Endpoints:
//
//	GET /render   one image per request, parameters in the query string
//	GET /ws       websocket session: JSON requests in, frames out
//	GET /healthz  liveness probe
//
// On the websocket every request supersedes the render still in flight for
// that connection, so a client dragging or zooming only ever receives the
// frame for its latest view.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gogpu/fractal"
)

// DefaultMaxPixels bounds the size of a single render (8K).
const DefaultMaxPixels = 7680 * 4320

// ErrTooLarge is returned when a request exceeds the pixel limit.
var ErrTooLarge = errors.New("server: render too large")

// Option configures a Server.
type Option func(*Server)

// WithMaxPixels limits width×height of any single render.
func WithMaxPixels(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// WithOriginPatterns sets the host patterns allowed to open a websocket
// from a browser on another origin.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = patterns
	}
}

// WithLogger sets the logger. By default the fractal package logger is
// used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server serves renders from one shared strategy. It does not own the
// strategy; the caller closes it after the server has stopped.
type Server struct {
	strategy       fractal.Strategy
	maxPixels      int
	originPatterns []string
	log            *slog.Logger
	mux            *http.ServeMux

	renders  atomic.Int64
	sessions atomic.Int64
}

// New creates a server rendering with strategy.
func New(strategy fractal.Strategy, opts ...Option) *Server {
	s := &Server{
		strategy:  strategy,
		maxPixels: DefaultMaxPixels,
		log:       fractal.Logger(),
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.mux.HandleFunc("GET /render", s.handleRender)
	s.mux.HandleFunc("GET /ws", s.handleWebsocket)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Health is the body of /healthz.
type Health struct {
	Status   string `json:"status"`
	Strategy string `json:"strategy"`
	Renders  int64  `json:"renders"`
	Sessions int64  `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Status:   "ok",
		Strategy: s.strategy.Kind().String(),
		Renders:  s.renders.Load(),
		Sessions: s.sessions.Load(),
	})
}

// resolve turns a request into a checked render job.
func (s *Server) resolve(req fractal.RenderRequest) (fractal.Viewport, fractal.Fractal, fractal.Palette, error) {
	v, f, p, err := req.Resolve()
	if err != nil {
		return v, f, p, err
	}
	if v.Pixels() > s.maxPixels {
		return v, f, p, ErrTooLarge
	}
	return v, f, p, nil
}

// statusFor maps an engine error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fractal.ErrInvalidViewport),
		errors.Is(err, fractal.ErrUnknownFamily),
		errors.Is(err, fractal.ErrUnknownPalette),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, fractal.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
