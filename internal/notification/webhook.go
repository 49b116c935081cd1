package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"buddhaday-notify/internal/apperror"
	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
)

// DefaultUsername is the display name used for webhook posts.
const DefaultUsername = "Notify"

// DefaultTimeout bounds every webhook POST.
const DefaultTimeout = 30 * time.Second

// DiscordConfig configures a DiscordNotifier.
type DiscordConfig struct {
	WebhookURL string
	Username   string        // defaults to DefaultUsername
	Timeout    time.Duration // defaults to DefaultTimeout
	Metrics    *metrics.Metrics
	Health     *metrics.HealthStatus // optional
}

// DiscordNotifier posts messages to a Discord-compatible webhook.
type DiscordNotifier struct {
	url      string
	username string
	client   *http.Client
	metrics  *metrics.Metrics
	health   *metrics.HealthStatus
}

type webhookPayload struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// NewDiscordNotifier creates a webhook notifier.
func NewDiscordNotifier(cfg DiscordConfig) *DiscordNotifier {
	username := cfg.Username
	if username == "" {
		username = DefaultUsername
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DiscordNotifier{
		url:      cfg.WebhookURL,
		username: username,
		client:   &http.Client{Timeout: timeout},
		metrics:  cfg.Metrics,
		health:   cfg.Health,
	}
}

// Send makes a single POST attempt. Any non-2xx status or transport failure
// is returned as a KindDiscordNotify error.
func (d *DiscordNotifier) Send(ctx context.Context, message string) error {
	start := time.Now()
	err := d.send(ctx, message)
	d.metrics.NotifyDur.Observe(time.Since(start).Seconds())

	if d.health != nil {
		d.health.SetLastNotify(time.Now(), err != nil)
	}
	if err != nil {
		d.metrics.Notifications.WithLabelValues("failed").Inc()
		slog.Error("[discord] notification failed", append(logger.LogWithTrace(ctx), slog.Any("error", err))...)
		return err
	}

	d.metrics.Notifications.WithLabelValues("sent").Inc()
	slog.Info("[discord] notification sent", logger.LogWithTrace(ctx)...)
	return nil
}

func (d *DiscordNotifier) send(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Username: d.username, Content: message})
	if err != nil {
		return apperror.Wrap(apperror.KindDiscordNotify, err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return apperror.Wrap(apperror.KindDiscordNotify, err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return apperror.Wrap(apperror.KindDiscordNotify, err, "send")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.New(apperror.KindDiscordNotify, fmt.Sprintf("Failed to send notification: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	return nil
}
