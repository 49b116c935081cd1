package model

import (
	"fmt"
	"time"
)

// BuddhistEraOffset is added to a Gregorian year to get the Buddhist Era year.
const BuddhistEraOffset = 543

// CalendarDate is a Gregorian calendar day.
type CalendarDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewCalendarDate returns the calendar day of t in t's location.
func NewCalendarDate(t time.Time) CalendarDate {
	return CalendarDate{
		Day:   t.Day(),
		Month: int(t.Month()),
		Year:  t.Year(),
	}
}

// Key returns the date as "YYYYMMDD", the join key used by the calendar feed.
func (d CalendarDate) Key() string {
	return FormatDate(d.Day, d.Month, d.Year)
}

// FormatDate formats a day as "YYYYMMDD" with month and day zero-padded.
func FormatDate(day, month, year int) string {
	return fmt.Sprintf("%d%02d%02d", year, month, day)
}

// BuddhaDate is the pair of days checked per request plus the Buddhist Era
// year whose calendar they are looked up in.
type BuddhaDate struct {
	Today    CalendarDate
	Tomorrow CalendarDate
	Year     int // Buddhist Era
}

// NewBuddhaDate derives today and tomorrow from now.
// Tomorrow is looked up in today's calendar year, so Dec 31 never matches
// a January 1 row.
func NewBuddhaDate(now time.Time) BuddhaDate {
	tomorrow := now.AddDate(0, 0, 1)
	return BuddhaDate{
		Today:    NewCalendarDate(now),
		Tomorrow: NewCalendarDate(tomorrow),
		Year:     now.Year() + BuddhistEraOffset,
	}
}
