package metrics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.CacheLookups.WithLabelValues("hit").Inc()
	m.CacheLookups.WithLabelValues("hit").Inc()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))

	// A second registry must not collide with the first.
	assert.NotPanics(t, func() { NewMetrics(prometheus.NewRegistry()) })
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Notifications.WithLabelValues("sent").Inc()

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.True(t, strings.Contains(string(body), `buddhanotify_notifications_total{result="sent"} 1`))
}

func TestHealthStatus_AlwaysOK(t *testing.T) {
	h := NewHealthStatus()
	h.SetLastNotify(time.Date(2024, 9, 5, 7, 0, 0, 0, time.UTC), true)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-09-05T07:00:00Z", body["last_notified_at"])
	assert.Equal(t, true, body["last_notify_failed"])
	_, hasFetch := body["last_fetch_at"]
	assert.False(t, hasFetch)
}
