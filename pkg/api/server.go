// Package api exposes the transform engine over HTTP.
//
// Documents are posted as the raw request body and options are passed as
// query parameters:
//
//	POST /v1/xyscale?factor=1.5
//	POST /v1/timescale?factor=2&preserve_audio=false
//	POST /v1/validate?strict_version=true
//	POST /v1/info?mode=analyze&format=yaml
//	GET  /v1/version
//	GET  /healthz
//
// Transform endpoints answer with the scaled document. Errors are JSON
// objects of the form {"error": {"code": "...", "message": "..."}}.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tscproj/pkg/observability"
	"github.com/matzehuels/tscproj/pkg/pipeline"
)

// DefaultMaxBody bounds request bodies.
const DefaultMaxBody = 64 << 20

// Defaults are the option values used when a request omits them.
type Defaults struct {
	Indent        int
	EnsureASCII   bool
	StrictVersion bool
	PreserveAudio bool
}

// Server serves the HTTP API.
type Server struct {
	Runner   *pipeline.Runner
	Logger   *log.Logger
	Defaults Defaults
	MaxBody  int64
}

// New returns a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		Runner:   runner,
		Logger:   logger,
		Defaults: Defaults{Indent: pipeline.DefaultIndent, PreserveAudio: true},
		MaxBody:  DefaultMaxBody,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/xyscale", s.handleTransform(pipeline.OpXYScale))
		r.Post("/timescale", s.handleTransform(pipeline.OpTimeScale))
		r.Post("/validate", s.handleValidate)
		r.Post("/info", s.handleInfo)
	})
	return r
}

// HTTPServer returns an http.Server for addr using Handler.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// observe reports requests to the registered API hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.API().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
