package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"prostavabot/internal/pkg/metrics"
)

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := NewServer(":0", prometheus.NewRegistry(), map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
		})
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"store":"ok"`)
	})

	t.Run("failing dependency", func(t *testing.T) {
		srv := NewServer(":0", prometheus.NewRegistry(), map[string]HealthCheck{
			"store": func(context.Context) error { return errors.New("connection refused") },
		})
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	m.TransitionsTotal.WithLabelValues("announce", "success").Inc()

	srv := NewServer(":0", reg, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `record_transitions_total{action="announce",status="success"} 1`)
}
