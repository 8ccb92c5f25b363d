package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grachmannico95/topup-gateway/internal/metrics"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestID_PropagatesHeader(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = logger.GetTraceID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", seen)
	assert.Equal(t, "trace-123", rec.Header().Get(TraceIDHeader))
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, rec.Header().Get(TraceIDHeader), 36)
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Logging(logger.NewNop()), Metrics())
	e.GET("/api/v1/operators/:operator/availability", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/operators/:operator/availability", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/operators/mci/availability", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetrics_RecordsHandlerErrors(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "no")
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
