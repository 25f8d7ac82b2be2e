package api

import (
	"errors"
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters on a private registry, so tests
// can create servers without default-registry collisions.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by route and status code.
	RequestsTotal *prometheus.CounterVec
	// MaskedValues counts values masked through the mask endpoint.
	MaskedValues prometheus.Counter
	// RenderFailures counts values the engine could only render as a
	// fallback placeholder.
	RenderFailures prometheus.Counter
}

// NewMetrics creates and registers all service counters.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensmask",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"path", "code"}),
		MaskedValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensmask",
			Name:      "masked_values_total",
			Help:      "Values masked through the API.",
		}),
		RenderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensmask",
			Name:      "render_failures_total",
			Help:      "Values rendered as a fallback placeholder.",
		}),
	}
	registry.MustRegister(m.RequestsTotal, m.MaskedValues, m.RenderFailures)
	return m
}

// middleware counts every request by registered route path and final
// status code. Echo error returns are resolved to their HTTP code
// before counting.
func (m *Metrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			err := next(c)

			code := http.StatusOK
			if res, unwrapErr := echo.UnwrapResponse(c.Response()); unwrapErr == nil {
				code = res.Status
			}
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				code = httpErr.Code
			}
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			m.RequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
			return err
		}
	}
}

// metricsHandler serves the private registry in Prometheus text format.
func (s *Server) metricsHandler(c *echo.Context) error {
	h := promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}
