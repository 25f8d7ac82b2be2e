package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v5"
)

// maskBodyLimit caps request bodies at 1 MiB. Masking input is log
// payload sized; anything larger is rejected rather than buffered.
const maskBodyLimit = 1 << 20

// MaskRequest is the body of POST /api/v1/mask. Exactly one of Value
// and Values must be present.
type MaskRequest struct {
	Value  any   `json:"value,omitempty"`
	Values []any `json:"values,omitempty"`
}

// MaskValueResponse is returned for single-value requests.
type MaskValueResponse struct {
	Masked string `json:"masked"`
}

// MaskValuesResponse is returned for batch requests.
type MaskValuesResponse struct {
	Masked []string `json:"masked"`
}

// maskHandler handles POST /api/v1/mask.
//
// When masking is disabled the endpoint refuses with 503 instead of
// echoing input back: a caller that depends on this service for
// scrubbing must not receive unmasked data by accident.
func (s *Server) maskHandler(c *echo.Context) error {
	if !s.cfg.Enabled {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "masking is disabled")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maskBodyLimit+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if len(body) > maskBodyLimit {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body exceeds 1 MiB")
	}

	var req MaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	hasValue := req.Value != nil
	hasValues := req.Values != nil
	if hasValue == hasValues {
		return echo.NewHTTPError(http.StatusBadRequest, "exactly one of value or values is required")
	}

	if hasValue {
		masked := s.engine.Mask(req.Value)
		s.countMasked(masked)
		return c.JSON(http.StatusOK, MaskValueResponse{Masked: masked})
	}

	masked := s.engine.MaskAll(req.Values...)
	for _, m := range masked {
		s.countMasked(m)
	}
	return c.JSON(http.StatusOK, MaskValuesResponse{Masked: masked})
}

func (s *Server) countMasked(rendered string) {
	s.metrics.MaskedValues.Inc()
	if strings.HasPrefix(rendered, "<unrenderable") {
		s.metrics.RenderFailures.Inc()
	}
}
