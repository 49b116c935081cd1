package api

import (
	"log/slog"
	"net/http"
	"time"

	"buddhaday-notify/internal/apperror"
	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
	"buddhaday-notify/internal/model"
	"buddhaday-notify/internal/notification"
)

type notifyHandler struct {
	apiKey   string
	resolver Resolver
	notifier notification.Notifier
	now      func() time.Time
	location *time.Location
	metrics  *metrics.Metrics
}

func newNotifyHandler(opts Options) *notifyHandler {
	h := &notifyHandler{
		apiKey:   opts.APIKey,
		resolver: opts.Resolver,
		notifier: opts.Notifier,
		now:      opts.Clock,
		location: opts.Location,
		metrics:  opts.Metrics,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.location == nil {
		h.location = time.Local
	}
	return h
}

// Authenticate reports whether key matches the configured shared secret.
// This is a plain equality check, not a cryptographic boundary.
func Authenticate(configured, key string) bool {
	return configured != "" && key == configured
}

// ServeHTTP handles GET /buddha/notify?key=...
//
//	200: a notification was sent (today takes priority over tomorrow)
//	204: neither day is an observance day
func (h *notifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !Authenticate(h.apiKey, r.URL.Query().Get("key")) {
		if h.metrics != nil {
			h.metrics.AuthRejections.Inc()
		}
		respondWithError(ctx, w, apperror.New(apperror.KindAuthentication, "Invalid API key"))
		return
	}

	date := model.NewBuddhaDate(h.now().In(h.location))
	buddha, err := h.resolver.Resolve(ctx, date)
	if err != nil {
		respondWithError(ctx, w, err)
		return
	}

	var message string
	switch {
	case buddha.Today.Found:
		message = buddha.Today.Description
	case buddha.Tomorrow.Found:
		message = buddha.Tomorrow.Description
	default:
		slog.Info("[notify] no observance day today or tomorrow",
			append(logger.LogWithTrace(ctx), slog.String("today", date.Today.Key()))...)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.notifier.Send(ctx, message); err != nil {
		respondWithError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
