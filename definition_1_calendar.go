package scheduler

import (
	"fmt"
	"time"
)

const (
	LayoutDate  = "2006-01-02"
	LayoutClock = "15:04"

	_MinutesPerHour = 60
	_MinutesPerDay  = 24 * _MinutesPerHour
)

// NormalizeDate returns the local midnight of the day holding t.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		0, 0, 0, 0,
		t.Location(),
	)
}

// ParseDate parses a YYYY-MM-DD date as local midnight.
func ParseDate(value string) (time.Time, error) {
	parsed, errParse := time.ParseInLocation(LayoutDate, value, time.Local)
	if errParse != nil {
		return time.Time{},
			fmt.Errorf("parse date %q: %w", value, errParse)
	}

	return parsed, nil
}

func FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}

// AddDays moves by calendar days, so a DST switch never shifts the result off midnight.
func AddDays(t time.Time, days int) time.Time {
	return NormalizeDate(t).AddDate(0, 0, days)
}

// DaysBetween counts the days from a to b, both ends included.
// Same day gives 1, b before a gives zero or less.
func DaysBetween(a, b time.Time) int {
	utcA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	utcB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	return int(utcB.Sub(utcA).Hours()/24) + 1
}

func IsSameDay(a, b time.Time) bool {
	yearA, monthA, dayA := a.Date()
	yearB, monthB, dayB := b.Date()

	return yearA == yearB && monthA == monthB && dayA == dayB
}

func IsWeekend(t time.Time) bool {
	weekday := t.Weekday()

	return weekday == time.Saturday || weekday == time.Sunday
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(value string) (int, error) {
	parsed, errParse := time.Parse(LayoutClock, value)
	if errParse != nil {
		return 0,
			fmt.Errorf("parse clock %q: %w", value, errParse)
	}

	return parsed.Hour()*_MinutesPerHour + parsed.Minute(),
		nil
}

// FormatClock renders minutes since midnight as "HH:MM".
// 1440 renders as "24:00" so an end of day stays readable.
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf(
		"%02d:%02d",
		minuteOfDay/_MinutesPerHour,
		minuteOfDay%_MinutesPerHour,
	)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*_MinutesPerHour + t.Minute()
}
