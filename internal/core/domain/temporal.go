package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var timeLayouts = []string{TimeLayout, "15:04"}

// ToInstant combines a calendar date and an optional wall-clock time in loc
// into a UTC instant. All-day dates, or dates without a time, resolve to the
// start of the day.
func ToInstant(date, timeOfDay string, allDay bool, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	year, month, day, err := parseCalendarDate(date)
	if err != nil {
		return time.Time{}, err
	}

	if allDay || timeOfDay == "" {
		return time.Date(year, month, day, 0, 0, 0, 0, loc).UTC(), nil
	}

	clock, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(year, month, day, clock.Hour(), clock.Minute(), clock.Second(), 0, loc).UTC(), nil
}

// FromInstant splits an instant into the date and time strings seen in loc.
// The time is empty for all-day values.
func FromInstant(instant time.Time, allDay bool, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.UTC
	}

	local := instant.In(loc)
	if allDay {
		return local.Format(DateLayout), ""
	}
	return local.Format(DateLayout), local.Format(TimeLayout)
}

// IsPast reports whether instant is strictly before now.
func IsPast(instant, now time.Time) bool {
	return instant.Before(now)
}

func parseCalendarDate(value string) (int, time.Month, int, error) {
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			year, month, day := parsed.Date()
			return year, month, day, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("%w: date %q", ErrInvalidDateFormat, value)
}

func parseTimeOfDay(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidDateFormat, value)
}
