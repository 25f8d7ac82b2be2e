package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/sensmask/pkg/version"
)

const healthStatusHealthy = "healthy"

// HealthResponse is returned by GET /health. The service holds no
// state and has no dependencies to probe, so a reachable process is a
// healthy one.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Rules   int    `json:"rules"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) healthHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  healthStatusHealthy,
		Version: version.GitCommit,
		Rules:   len(s.cfg.Rules),
		Enabled: s.cfg.Enabled,
	})
}
