package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		day, month, year int
		want             string
	}{
		{5, 9, 2024, "20240905"},
		{15, 12, 2024, "20241215"},
		{1, 1, 2025, "20250101"},
		{31, 10, 2026, "20261031"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDate(c.day, c.month, c.year))
	}
}

func TestCalendarDate_Key(t *testing.T) {
	d := CalendarDate{Day: 5, Month: 9, Year: 2024}
	assert.Equal(t, "20240905", d.Key())
}

func TestNewBuddhaDate(t *testing.T) {
	now := time.Date(2024, time.September, 5, 8, 0, 0, 0, time.UTC)
	bd := NewBuddhaDate(now)

	assert.Equal(t, CalendarDate{Day: 5, Month: 9, Year: 2024}, bd.Today)
	assert.Equal(t, CalendarDate{Day: 6, Month: 9, Year: 2024}, bd.Tomorrow)
	assert.Equal(t, 2567, bd.Year)
}

func TestNewBuddhaDate_MonthAndYearRollover(t *testing.T) {
	bd := NewBuddhaDate(time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "20240301", bd.Tomorrow.Key())

	bd = NewBuddhaDate(time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "20250101", bd.Tomorrow.Key())
	assert.Equal(t, 2567, bd.Year, "year stays on today's Buddhist Era year")
}

func TestNewBuddhaDate_UsesLocation(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	// 2024-09-05 20:00 UTC is already the 6th in Bangkok.
	now := time.Date(2024, time.September, 5, 20, 0, 0, 0, time.UTC).In(bangkok)
	bd := NewBuddhaDate(now)
	assert.Equal(t, "20240906", bd.Today.Key())
}

func TestNewBuddha(t *testing.T) {
	b := NewBuddha()
	assert.False(t, b.Today.Found)
	assert.False(t, b.Tomorrow.Found)
	assert.Empty(t, b.Today.Description)
	assert.Empty(t, b.Tomorrow.Description)
}
