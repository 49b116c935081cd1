// Package calendar downloads the Buddhist observance-day calendar feed,
// caches it per Buddhist Era year and resolves today's and tomorrow's entries.
package calendar

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"buddhaday-notify/internal/apperror"
	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
)

// DefaultTimeout bounds every outbound calendar request.
const DefaultTimeout = 30 * time.Second

// Marker phrases identifying an observance-day row by its description.
var buddhaDayMarkers = []string{"วันพระ", "15 ค่ำ"}

// CalendarRow is the ordered fields of one CSV record.
// Field 0 is the description, field 1 the "YYYYMMDD" date key.
type CalendarRow []string

// YearCalendar maps a "YYYYMMDD" date key to its observance-day row.
// An empty map means the year was fetched and nothing matched.
type YearCalendar map[string]CalendarRow

// Clone returns a shallow copy. Rows are never mutated after parsing.
func (c YearCalendar) Clone() YearCalendar {
	if c == nil {
		return YearCalendar{}
	}
	return maps.Clone(c)
}

// IsBuddhaDay reports whether a row description carries an observance marker.
func IsBuddhaDay(description string) bool {
	for _, m := range buddhaDayMarkers {
		if strings.Contains(description, m) {
			return true
		}
	}
	return false
}

// FetcherConfig configures the calendar Fetcher.
type FetcherConfig struct {
	Endpoint string        // base URL; "?{year}.csv" is appended
	Timeout  time.Duration // defaults to DefaultTimeout
	Client   *http.Client  // optional; overrides Timeout
	Metrics  *metrics.Metrics
	Health   *metrics.HealthStatus // optional
}

// Fetcher downloads and parses one year of the calendar feed.
type Fetcher struct {
	endpoint string
	client   *http.Client
	metrics  *metrics.Metrics
	health   *metrics.HealthStatus
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		endpoint: cfg.Endpoint,
		client:   client,
		metrics:  cfg.Metrics,
		health:   cfg.Health,
	}
}

// URL returns the feed URL for a Buddhist Era year.
func (f *Fetcher) URL(year int) string {
	return fmt.Sprintf("%s?%d.csv", f.endpoint, year)
}

// Fetch downloads the feed for year and returns its observance-day rows.
// Caller cancellation is not propagated; the client timeout bounds the call.
func (f *Fetcher) Fetch(ctx context.Context, year int) (YearCalendar, error) {
	start := time.Now()
	slog.Info("[calendar] fetching calendar", append(logger.LogWithTrace(ctx), slog.Int("year", year))...)

	cal, err := f.fetch(ctx, year)

	f.metrics.CalendarFetchDur.Observe(time.Since(start).Seconds())
	if err != nil {
		result := "http_error"
		if apperror.KindOf(err) == apperror.KindCSV {
			result = "csv_error"
		}
		f.metrics.CalendarFetches.WithLabelValues(result).Inc()
		slog.Error("[calendar] fetch failed", append(logger.LogWithTrace(ctx), slog.Int("year", year), slog.Any("error", err))...)
		return nil, err
	}

	f.metrics.CalendarFetches.WithLabelValues("ok").Inc()
	f.metrics.CalendarRowsKept.Set(float64(len(cal)))
	if f.health != nil {
		f.health.SetLastFetch(time.Now())
	}
	slog.Info("[calendar] fetched calendar", append(logger.LogWithTrace(ctx), slog.Int("year", year), slog.Int("rows", len(cal)))...)
	return cal, nil
}

func (f *Fetcher) fetch(ctx context.Context, year int) (YearCalendar, error) {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, f.URL(year), nil)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindHTTPClient, err, "create request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindHTTPClient, err, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.New(apperror.KindHTTPClient, fmt.Sprintf("calendar feed returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindHTTPClient, err, "read body")
	}

	return ParseCalendar(bytes.NewReader(body))
}

// ParseCalendar reads a headerless CSV feed and keeps observance-day rows.
// Rows with fewer than two fields are skipped.
func ParseCalendar(r io.Reader) (YearCalendar, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1

	cal := make(YearCalendar)
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.Wrap(apperror.KindCSV, err, "")
		}
		if len(rec) < 2 || !IsBuddhaDay(rec[0]) {
			continue
		}
		cal[strings.TrimSpace(rec[1])] = CalendarRow(rec)
	}
	return cal, nil
}
