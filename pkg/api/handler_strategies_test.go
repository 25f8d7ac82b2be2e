package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/sensmask/pkg/mask"
)

func TestStrategiesHandler(t *testing.T) {
	s := newTestServer(t)
	s.maskers.Register("ssn", mask.MaskerFunc(func(v string, _ rune) string { return v }))
	s.maskers.Register("iban", mask.MaskerFunc(func(v string, _ rune) string { return v }))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.strategiesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp StrategiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"full", "first_last", "last_four", "custom"}, resp.Strategies)
	assert.Equal(t, []string{"iban", "ssn"}, resp.Maskers)
}

func TestStrategiesHandlerNoMaskers(t *testing.T) {
	s := newTestServer(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.strategiesHandler(c))

	var resp StrategiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Maskers)
}
