package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestPrometheusMiddleware_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(PrometheusMiddleware())
	e.GET("/api/catalog/items/:itemId", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	before := counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/catalog/items/:itemId", "204"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/items/"+id, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	after := counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/catalog/items/:itemId", "204"))
	assert.Equal(t, before+2, after)
}

func TestPrometheusMiddleware_RecordsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(PrometheusMiddleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "418")))
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("x")))
}
