// Package domain defines the persistence models and core value types for the
// weekly schedule application. This file implements the time-of-day value
// logic used by conflict detection: parsing "HH:MM" strings, ordering, and
// the half-open interval overlap test.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the canonical wire/storage format for calendar dates.
const DateLayout = "2006-01-02"

// ErrTimeFormat is returned when a time-of-day string does not match "HH:MM"
// (24h clock, minutes 00-59; a single-digit hour is accepted).
var ErrTimeFormat = errors.New("invalid time of day, expected HH:MM")

// ErrDateFormat is returned when a calendar date string does not match
// the YYYY-MM-DD layout.
var ErrDateFormat = errors.New("invalid date, expected YYYY-MM-DD")

// timeOfDayRE accepts 24h clock values like "9:30", "09:30" or "23:59".
var timeOfDayRE = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// TimeOfDay is a naive local wall-clock time within a single day.
// The zero value is midnight.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string into a TimeOfDay. It returns
// ErrTimeFormat for anything that does not match the 24h pattern.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timeOfDayRE.MatchString(s) {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Minutes returns the value as minutes since midnight, which gives a total
// ordering over times within a day.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// Before reports whether t is strictly earlier than o.
func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Minutes() < o.Minutes() }

// String renders the zero-padded canonical "HH:MM" form.
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// TimeRange is a half-open [Start, End) interval within one day.
// Start must be strictly before End for the range to be valid.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewTimeRange parses and validates a start/end pair. It returns
// ErrTimeFormat for malformed inputs and ErrTimeOrder when start >= end.
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, err
	}
	if !s.Before(e) {
		return TimeRange{}, fmt.Errorf("%w: %s >= %s", ErrTimeOrder, s, e)
	}
	return TimeRange{Start: s, End: e}, nil
}

// ErrTimeOrder is returned when a range's start is not strictly before its end.
var ErrTimeOrder = errors.New("start time must be before end time")

// Overlaps reports whether two half-open intervals intersect. Ranges that
// merely touch (r.End == o.Start) do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return !(r.End.Minutes() <= o.Start.Minutes() || o.End.Minutes() <= r.Start.Minutes())
}

// ParseDate parses a YYYY-MM-DD calendar date. The returned time is naive
// local midnight; callers only ever use the date components.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, s)
	}
	return d, nil
}

// DayOfWeek returns the 0-6 weekday index (0 = Sunday) for a date.
func DayOfWeek(d time.Time) int { return int(d.Weekday()) }
