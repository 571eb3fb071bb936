package model

import "time"

// dateLayout is the ISO calendar-date form used everywhere: in the persisted
// JSON, in the sqlite backend, and in all date comparisons.
const dateLayout = "2006-01-02"

// Date is a calendar date in "YYYY-MM-DD" form. The zero value ("") means
// "no date", a record that has never checked in.
//
// WHY A STRING AND NOT time.Time?
// Check-in semantics are calendar-day semantics: two events on the same wall
// date are "the same day" no matter the hour or timezone they arrived in.
// A plain date string makes same-day comparison an == check, keeps the JSON
// format identical to what the store has always persisted, and cannot carry
// a stray time-of-day or zone that would break equality.
type Date string

// DateOf truncates a point in time to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the current calendar date in local time.
func Today() Date {
	return DateOf(time.Now())
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d == ""
}

// DaysSince returns the signed number of calendar days from other to d
// (positive when d is later). Malformed dates yield 0, which downstream
// streak logic treats the same as any other non-one-day gap: reset.
func (d Date) DaysSince(other Date) int {
	a, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return 0
	}
	b, err := time.Parse(dateLayout, string(other))
	if err != nil {
		return 0
	}
	// Both parse in UTC with no time-of-day component, so the division
	// is exact with no DST edge to worry about.
	return int(a.Sub(b) / (24 * time.Hour))
}

// SameMonth reports whether both dates fall in the same calendar year-month.
// Compares the "YYYY-MM" prefix, which is exactly how the persisted format
// encodes the month.
func (d Date) SameMonth(other Date) bool {
	if len(d) < 7 || len(other) < 7 {
		return false
	}
	return d[:7] == other[:7]
}
