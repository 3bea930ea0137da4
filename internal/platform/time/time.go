// Package time holds calendar date helpers shared by ingestion and the read path
package time

import (
	"fmt"
	"time"
)

// DateLayout is the wire and flag format for calendar dates
const DateLayout = "2006-01-02"

// Clock is the seam services use instead of time.Now
type Clock func() time.Time

// SystemClock returns the current time
func SystemClock() time.Time { return time.Now() }

// Day truncates t to midnight UTC of its UTC calendar date
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Yesterday returns the UTC calendar day before now
func Yesterday(now time.Time) time.Time { return Day(now).AddDate(0, 0, -1) }

// SameDay reports whether a and b fall on the same UTC date
func SameDay(a, b time.Time) bool { return Day(a).Equal(Day(b)) }

// ParseDate parses YYYY-MM-DD as a UTC day
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want %s", s, DateLayout)
	}
	return t, nil
}

// FormatDate renders the UTC date of t as YYYY-MM-DD
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
