// Package notification delivers Buddha-day messages to a chat webhook.
package notification

import (
	"context"
	"log/slog"

	"buddhaday-notify/internal/logger"
)

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers a message. Returns error if delivery fails.
	Send(ctx context.Context, message string) error
}

// LogNotifier logs messages instead of delivering them (dry-run mode).
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, message string) error {
	slog.Info("[notify] dry run", append(logger.LogWithTrace(ctx), slog.String("content", message))...)
	return nil
}
