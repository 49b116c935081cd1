// Package api provides the HTTP surface of the notifier.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"buddhaday-notify/internal/metrics"
	"buddhaday-notify/internal/model"
	"buddhaday-notify/internal/notification"
)

// Resolver reports whether the days in date are observance days.
type Resolver interface {
	Resolve(ctx context.Context, date model.BuddhaDate) (model.Buddha, error)
}

// Options wires the router's dependencies.
type Options struct {
	APIKey   string
	Resolver Resolver
	Notifier notification.Notifier

	Clock    func() time.Time // defaults to time.Now
	Location *time.Location   // defaults to time.Local

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer   // serves /metrics when set
	Health   *metrics.HealthStatus // defaults to a fresh status
}

// NewRouter sets up HTTP routes and middleware.
func NewRouter(opts Options) http.Handler {
	h := newNotifyHandler(opts)

	health := opts.Health
	if health == nil {
		health = metrics.NewHealthStatus()
	}

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.Use(monitorMiddleware(opts.Metrics))

	r.Handle("/health", health).Methods(http.MethodGet)
	r.HandleFunc("/buddha/notify", h.ServeHTTP).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(opts.Gatherer)).Methods(http.MethodGet)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)),
	)

	return recovery(cors(r))
}
