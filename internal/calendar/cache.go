package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"buddhaday-notify/internal/apperror"
	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
)

// Source loads one year of the calendar.
type Source interface {
	Fetch(ctx context.Context, year int) (YearCalendar, error)
}

// YearCache holds parsed calendars by Buddhist Era year for the process
// lifetime. Entries are never evicted or refreshed.
//
// The lock is held only to read or insert; fetches run unlocked, and
// concurrent misses for the same year share a single fetch.
type YearCache struct {
	src     Source
	metrics *metrics.Metrics

	mu    sync.Mutex
	years map[int]YearCalendar

	flights singleflight.Group
}

// NewYearCache creates an empty cache backed by src.
func NewYearCache(src Source, m *metrics.Metrics) *YearCache {
	return &YearCache{
		src:     src,
		metrics: m,
		years:   make(map[int]YearCalendar),
	}
}

// GetOrFetch returns a copy of the calendar for year, fetching it on a miss.
// An empty cached calendar counts as a miss and is fetched again.
func (c *YearCache) GetOrFetch(ctx context.Context, year int) (YearCalendar, error) {
	if cal, ok := c.lookup(year); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		slog.Debug("[cache] hit", append(logger.LogWithTrace(ctx), slog.Int("year", year))...)
		return cal, nil
	}

	v, err, shared := c.flights.Do(strconv.Itoa(year), func() (any, error) {
		return c.fill(ctx, year)
	})
	if shared {
		c.metrics.CacheLookups.WithLabelValues("shared").Inc()
	} else {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(YearCalendar).Clone(), nil
}

// Len returns the number of cached years.
func (c *YearCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.years)
}

func (c *YearCache) lookup(year int) (YearCalendar, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cal, ok := c.years[year]
	if !ok || len(cal) == 0 {
		return nil, false
	}
	return cal.Clone(), true
}

// fill fetches year and stores the result. A panic in the source is
// reported as a cache error for this request only.
func (c *YearCache) fill(ctx context.Context, year int) (cal YearCalendar, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[cache] fetch panicked", append(logger.LogWithTrace(ctx), slog.Int("year", year), slog.Any("panic", r))...)
			cal, err = nil, apperror.New(apperror.KindCache, fmt.Sprintf("calendar fetch for year %d panicked: %v", year, r))
		}
	}()

	// A flight for this year may have completed since the first lookup.
	if cached, ok := c.lookup(year); ok {
		return cached, nil
	}

	cal, err = c.src.Fetch(ctx, year)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		cal = YearCalendar{}
	}

	c.mu.Lock()
	c.years[year] = cal
	n := len(c.years)
	c.mu.Unlock()

	c.metrics.CachedYears.Set(float64(n))
	return cal, nil
}
