package domain

import (
	"fmt"
	"time"
)

// ClockTime is a time-of-day expressed in minutes since midnight, [0, 1440].
// Candidates only ever land on whole minutes, so this avoids carrying a full
// time.Time (and its date/location baggage) through the hot scoring path.
type ClockTime int

const minutesPerDay = 24 * 60

// NewClockTime builds a ClockTime from an hour/minute pair.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// Add returns the clock time durationMinutes later, which may exceed 24:00;
// callers that care about day overflow must check against minutesPerDay.
func (c ClockTime) Add(durationMinutes int) ClockTime {
	return c + ClockTime(durationMinutes)
}

// OverflowsDay reports whether c falls past the end of the calendar day;
// exactly 24:00 does not overflow.
func (c ClockTime) OverflowsDay() bool {
	return int(c) > minutesPerDay
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// String renders HH:MM:SS, the wire format used throughout the input/output
// JSON boundary.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour(), c.Minute())
}

// Date is a calendar date with no time-of-day or location component. It is
// always normalized to UTC midnight so equality and arithmetic are exact.
type Date struct {
	t time.Time
}

// NewDate builds a Date from a year/month/day triple.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime normalizes an arbitrary time.Time down to its calendar date.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func (d Date) AddDays(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

// Weekday returns Mon=0..Sun=6, matching the spec's weekday numbering rather
// than time.Weekday's Sun=0.
func (d Date) Weekday() int {
	wd := d.t.Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Before-or-equal / after-or-equal convenience, used pervasively by range checks.
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// DaysBetween returns the number of days from d to other (may be negative).
func (d Date) DaysBetween(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

func (d Date) Format() string {
	return d.t.Format("2006-01-02")
}

func (d Date) Year() int          { return d.t.Year() }
func (d Date) Month() time.Month  { return d.t.Month() }
func (d Date) Day() int           { return d.t.Day() }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateFromTime(t), nil
}

// ParseClockTime parses an HH:MM:SS (or HH:MM) string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, err
		}
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}
