// Package api exposes the masking engine over HTTP: a mask endpoint
// for sidecar-style callers, a strategy listing, health, and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/sensmask/pkg/config"
	"github.com/codeready-toolchain/sensmask/pkg/mask"
)

// Server is the HTTP facade over a masking engine.
type Server struct {
	cfg     *config.Config
	engine  *mask.Engine
	maskers *mask.Registry
	metrics *Metrics

	httpSrv *http.Server
}

// NewServer creates the API server. The registry is the same one the
// engine resolves custom maskers from; the strategies endpoint lists
// its names.
func NewServer(cfg *config.Config, engine *mask.Engine, maskers *mask.Registry) *Server {
	return &Server{
		cfg:     cfg,
		engine:  engine,
		maskers: maskers,
		metrics: NewMetrics(),
	}
}

// Router builds the echo instance with all routes and middleware
// registered. Exposed separately from Start for tests.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.Use(securityHeaders())
	e.Use(s.metrics.middleware())

	e.GET("/health", s.healthHandler)
	e.GET("/metrics", s.metricsHandler)

	v1 := e.Group("/api/v1")
	v1.POST("/mask", s.maskHandler)
	v1.GET("/strategies", s.strategiesHandler)

	return e
}

// Start runs the HTTP server on addr. It blocks until the server
// stops and returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
