package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func metricsRouter(t *testing.T) (*gin.Engine, *sdkmetric.ManualReader) {
	mp, reader := setupTestMeter(t)
	router := gin.New()
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), true, zap.NewNop()))
	router.GET("/api/v1/revenue-entries/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.POST("/api/v1/revenue-entries", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})
	return router, reader
}

func TestHTTPMetrics_DisabledPassesThrough(t *testing.T) {
	tests := []struct {
		name string
		cfg  HTTPMetricsConfig
	}{
		{"disabled", HTTPMetricsConfig{Enabled: false}},
		{"no provider", HTTPMetricsConfig{Enabled: true}},
		{"provider not exporting", HTTPMetricsConfig{Enabled: true, MeterProvider: mustDisabledProvider(t)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(HTTPMetrics(tt.cfg))
			router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func mustDisabledProvider(t *testing.T) *telemetry.MeterProvider {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{Enabled: false}, nil)
	require.NoError(t, err)
	return mp
}

func TestHTTPMetricsWithMeter_RequestCounterByRouteAndStatus(t *testing.T) {
	router, reader := metricsRouter(t)

	for _, path := range []string{"/api/v1/revenue-entries/a", "/api/v1/revenue-entries/b", "/api/v1/revenue-entries/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	total := findMetricByName(collectMetrics(t, reader), "http_server_request_total")
	require.NotNil(t, total)
	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byStatus := map[int64]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
		assert.Equal(t, "/api/v1/revenue-entries/:id", route.AsString())
		status, _ := dp.Attributes.Value(telemetry.AttrHTTPStatusCode)
		byStatus[status.AsInt64()] += dp.Value
	}
	assert.Equal(t, int64(2), byStatus[http.StatusOK])
	assert.Equal(t, int64(1), byStatus[http.StatusNotFound])
}

func TestHTTPMetricsWithMeter_DurationAndSizes(t *testing.T) {
	router, reader := metricsRouter(t)

	body := `{"amount":"100.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/revenue-entries", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	rm := collectMetrics(t, reader)

	duration := findMetricByName(rm, "http_server_request_duration_seconds")
	require.NotNil(t, duration)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	_, hasStatus := hist.DataPoints[0].Attributes.Value(telemetry.AttrHTTPStatusCode)
	assert.False(t, hasStatus)

	reqSize := findMetricByName(rm, "http_server_request_size_bytes")
	require.NotNil(t, reqSize)
	sizeHist := reqSize.Data.(metricdata.Histogram[float64])
	assert.Equal(t, float64(len(body)), sizeHist.DataPoints[0].Sum)

	assert.NotNil(t, findMetricByName(rm, "http_server_response_size_bytes"))
}

func TestHTTPMetricsWithMeter_ActiveRequestsReturnToZero(t *testing.T) {
	router, reader := metricsRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/revenue-entries/a", nil))

	active := findMetricByName(collectMetrics(t, reader), "http_server_active_requests")
	require.NotNil(t, active)
	sum := active.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Zero(t, sum.DataPoints[0].Value)
}

func TestRoutePattern_Unmatched(t *testing.T) {
	router, reader := metricsRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	total := findMetricByName(collectMetrics(t, reader), "http_server_request_total")
	require.NotNil(t, total)
	dp := total.Data.(metricdata.Sum[int64]).DataPoints[0]
	assert.True(t, dp.Attributes.HasValue(attribute.Key("http.route")))
	route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
	assert.Equal(t, "unknown", route.AsString())
}
