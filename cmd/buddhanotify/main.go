package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"buddhaday-notify/config"
	"buddhaday-notify/internal/api"
	"buddhaday-notify/internal/calendar"
	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
	"buddhaday-notify/internal/notification"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Log notifications instead of posting them to the webhook")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[buddhanotify] failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init("buddha-notify", cfg.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)
	health := metrics.NewHealthStatus()

	fetcher := calendar.NewFetcher(calendar.FetcherConfig{
		Endpoint: cfg.BuddhaEndpoint,
		Metrics:  m,
		Health:   health,
	})
	resolver := calendar.NewResolver(calendar.NewYearCache(fetcher, m), m)

	var notifier notification.Notifier
	if *dryRun {
		notifier = notification.NewLogNotifier()
		slog.Warn("[buddhanotify] dry-run mode, notifications are only logged")
	} else {
		notifier = notification.NewDiscordNotifier(notification.DiscordConfig{
			WebhookURL: cfg.DiscordWebhookURL,
			Username:   cfg.DiscordUsername,
			Metrics:    m,
			Health:     health,
		})
	}

	router := api.NewRouter(api.Options{
		APIKey:   cfg.APIKey,
		Resolver: resolver,
		Notifier: notifier,
		Location: cfg.Location,
		Metrics:  m,
		Gatherer: reg,
		Health:   health,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("[buddhanotify] listening", "addr", srv.Addr, "location", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[buddhanotify] server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[buddhanotify] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[buddhanotify] shutdown error", "error", err)
	}
	slog.Info("[buddhanotify] stopped")
}
