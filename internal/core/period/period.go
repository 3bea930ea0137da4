// Package period turns period tokens into windows and buckets catalog rows into dashboard views
package period

import (
	"strings"
	"time"

	perr "tubepulse/internal/platform/errors"
	ptime "tubepulse/internal/platform/time"
)

// Token names a lookback window ending now
type Token string

// Known tokens
const (
	Month    Token = "month"
	Quarter  Token = "quarter"
	SixMonth Token = "6month"
	Year     Token = "year"
)

// Tokens lists every accepted token
var Tokens = []Token{Month, Quarter, SixMonth, Year}

// Parse maps s to a token; blank or unknown input is Month
func Parse(s string) Token {
	t, err := ParseStrict(s)
	if err != nil {
		return Month
	}
	return t
}

// ParseStrict is Parse without the fallback for unknown input; blank is still Month
func ParseStrict(s string) (Token, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Month, nil
	}
	for _, t := range Tokens {
		if s == string(t) {
			return t, nil
		}
	}
	return "", perr.WithField(perr.InvalidArgf("unknown period %q", s), "period")
}

// Window is the inclusive range [Start, End]
type Window struct {
	Token Token     `json:"period"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Window resolves t against now: month is 30 days, the rest are calendar months or years
func (t Token) Window(now time.Time) Window {
	var start time.Time
	switch t {
	case Quarter:
		start = now.AddDate(0, -3, 0)
	case SixMonth:
		start = now.AddDate(0, -6, 0)
	case Year:
		start = now.AddDate(-1, 0, 0)
	default:
		t = Month
		start = now.AddDate(0, 0, -30)
	}
	return Window{Token: t, Start: start, End: now}
}

// Contains reports whether ts is within the window, both ends included
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}

// Days returns the UTC calendar dates bounding the window, for date keyed tables
func (w Window) Days() (from, to time.Time) {
	return ptime.Day(w.Start), ptime.Day(w.End)
}

// Range builds a window from explicit dates; end is extended to the last instant of its day
func Range(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, perr.WithField(perr.InvalidArgf("start is after end"), "start")
	}
	return Window{Start: start, End: ptime.Day(end).Add(24*time.Hour - time.Nanosecond)}, nil
}
