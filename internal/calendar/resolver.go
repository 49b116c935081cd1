package calendar

import (
	"context"
	"log/slog"

	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
	"buddhaday-notify/internal/model"
)

// Labels prefixed to a found day's description.
const (
	TodayLabel    = "วันนี้"
	TomorrowLabel = "พรุ่งนี้"
)

// YearSource returns the calendar for a Buddhist Era year.
type YearSource interface {
	GetOrFetch(ctx context.Context, year int) (YearCalendar, error)
}

// Resolver looks up today and tomorrow in the cached calendar.
type Resolver struct {
	src     YearSource
	metrics *metrics.Metrics
}

// NewResolver creates a Resolver reading calendars from src.
func NewResolver(src YearSource, m *metrics.Metrics) *Resolver {
	return &Resolver{src: src, metrics: m}
}

// Resolve reports whether today and tomorrow are observance days.
// A day missing from the calendar is a normal result, not an error.
func (r *Resolver) Resolve(ctx context.Context, date model.BuddhaDate) (model.Buddha, error) {
	buddha := model.NewBuddha()

	cal, err := r.src.GetOrFetch(ctx, date.Year)
	if err != nil {
		return buddha, err
	}

	buddha.Today = lookupDay(cal, date.Today, TodayLabel)
	buddha.Tomorrow = lookupDay(cal, date.Tomorrow, TomorrowLabel)

	if buddha.Today.Found {
		r.metrics.ResolvedBuddhaDay.WithLabelValues("today").Inc()
	}
	if buddha.Tomorrow.Found {
		r.metrics.ResolvedBuddhaDay.WithLabelValues("tomorrow").Inc()
	}

	slog.Debug("[resolver] resolved",
		append(logger.LogWithTrace(ctx),
			slog.String("today", date.Today.Key()),
			slog.Bool("today_found", buddha.Today.Found),
			slog.String("tomorrow", date.Tomorrow.Key()),
			slog.Bool("tomorrow_found", buddha.Tomorrow.Found),
		)...)
	return buddha, nil
}

func lookupDay(cal YearCalendar, d model.CalendarDate, label string) model.BuddhaDay {
	row, ok := cal[d.Key()]
	if !ok || len(row) == 0 {
		return model.BuddhaDay{}
	}
	return model.BuddhaDay{
		Description: label + " " + row[0],
		Found:       true,
	}
}
