package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the notifier.
type Metrics struct {
	// HTTP surface
	RequestsTotal   *prometheus.CounterVec   // labels: route, method, status
	RequestDuration *prometheus.HistogramVec // labels: route, method
	AuthRejections  prometheus.Counter

	// Calendar feed
	CalendarFetches   *prometheus.CounterVec // labels: result=ok|http_error|csv_error
	CalendarFetchDur  prometheus.Histogram
	CalendarRowsKept  prometheus.Gauge
	CacheLookups      *prometheus.CounterVec // labels: result=hit|miss|shared
	CachedYears       prometheus.Gauge
	ResolvedBuddhaDay *prometheus.CounterVec // labels: day=today|tomorrow

	// Outbound webhook
	Notifications *prometheus.CounterVec // labels: result=sent|failed
	NotifyDur     prometheus.Histogram
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buddhanotify_http_requests_total",
			Help: "Total HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buddhanotify_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		AuthRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buddhanotify_auth_rejections_total",
			Help: "Requests rejected for a wrong or missing key",
		}),

		CalendarFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buddhanotify_calendar_fetches_total",
			Help: "Calendar feed downloads by result",
		}, []string{"result"}),
		CalendarFetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "buddhanotify_calendar_fetch_duration_seconds",
			Help:    "Calendar feed download and parse latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CalendarRowsKept: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "buddhanotify_calendar_rows_kept",
			Help: "Observance-day rows kept from the most recent fetch",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buddhanotify_calendar_cache_lookups_total",
			Help: "Year cache lookups (hit, miss, or shared in-flight fetch)",
		}, []string{"result"}),
		CachedYears: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "buddhanotify_calendar_cached_years",
			Help: "Number of years held in the calendar cache",
		}),
		ResolvedBuddhaDay: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buddhanotify_buddha_days_found_total",
			Help: "Lookups that found an observance day",
		}, []string{"day"}),

		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buddhanotify_notifications_total",
			Help: "Webhook notifications by result",
		}, []string{"result"}),
		NotifyDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "buddhanotify_notify_duration_seconds",
			Help:    "Webhook POST latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.AuthRejections,
		m.CalendarFetches,
		m.CalendarFetchDur,
		m.CalendarRowsKept,
		m.CacheLookups,
		m.CachedYears,
		m.ResolvedBuddhaDay,
		m.Notifications,
		m.NotifyDur,
	)

	return m
}

// Handler exposes the metrics gathered by g in Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// HealthStatus tracks liveness details reported by /health.
type HealthStatus struct {
	mu sync.RWMutex

	StartedAt        time.Time
	LastFetchAt      time.Time
	LastNotifiedAt   time.Time
	LastNotifyFailed bool
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetLastFetch(t time.Time) {
	h.mu.Lock()
	h.LastFetchAt = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastNotify(t time.Time, failed bool) {
	h.mu.Lock()
	h.LastNotifiedAt = t
	h.LastNotifyFailed = failed
	h.mu.Unlock()
}

// ServeHTTP handles /health. It always answers 200; the body is informational.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := struct {
		Status           string `json:"status"`
		Uptime           string `json:"uptime"`
		LastFetchAt      string `json:"last_fetch_at,omitempty"`
		LastNotifiedAt   string `json:"last_notified_at,omitempty"`
		LastNotifyFailed bool   `json:"last_notify_failed"`
	}{
		Status:           "ok",
		Uptime:           time.Since(h.StartedAt).Round(time.Second).String(),
		LastFetchAt:      formatTime(h.LastFetchAt),
		LastNotifiedAt:   formatTime(h.LastNotifiedAt),
		LastNotifyFailed: h.LastNotifyFailed,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
