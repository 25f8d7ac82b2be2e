package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/sensmask/pkg/mask"
)

// StrategiesResponse is returned by GET /api/v1/strategies.
type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
	Maskers    []string `json:"maskers"`
}

// strategiesHandler lists the built-in strategies and the names of
// registered custom maskers.
func (s *Server) strategiesHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, StrategiesResponse{
		Strategies: mask.Strategies(),
		Maskers:    s.maskers.Names(),
	})
}
