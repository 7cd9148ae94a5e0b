// Package web serves the screening form as server-rendered HTML.
//
// Every request that performs a lookup owns a fresh session.Machine; the
// server holds no view state between requests. A failed lookup carries its
// query back to the browser in hidden fields so "Try Again" can resubmit it.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/amlscreen/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the screening pages.
type Server struct {
	screener session.Screener
	logger   zerolog.Logger
	gatherer prometheus.Gatherer
	now      func() time.Time
	version  string
	tmpl     *template.Template
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer exposes g at /metrics. Without it /metrics is not routed.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithClock sets the clock used to validate dates of birth.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithVersion sets the version shown in the page footer.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(screener session.Screener, opts ...Option) (*Server, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		screener: screener,
		logger:   zerolog.Nop(),
		now:      time.Now,
		tmpl:     tmpl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Post("/search", s.handleSearch)
	r.Post("/retry", s.handleSearch)
	r.Get("/reset", s.handleReset)
	r.Get("/healthz", s.handleHealthz)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
