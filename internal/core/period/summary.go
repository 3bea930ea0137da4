package period

import "time"

// Day is one total dimension snapshot as the trend and summary see it
type Day struct {
	Date                   time.Time `json:"date"`
	Views                  int64     `json:"views"`
	WatchMinutes           int64     `json:"watch_minutes"`
	AverageDurationSeconds float64   `json:"average_duration_seconds"`
	SubscribersGained      int64     `json:"subscribers_gained"`
}

// Summary is the key metric rollup of a window
type Summary struct {
	Days                   int     `json:"days"`
	Views                  int64   `json:"views"`
	WatchMinutes           int64   `json:"watch_minutes"`
	SubscribersGained      int64   `json:"subscribers_gained"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
}

// Summarize totals days and weights the average duration by views
func Summarize(days []Day) Summary {
	var s Summary
	var weighted float64
	for _, d := range days {
		s.Days++
		s.Views += d.Views
		s.WatchMinutes += d.WatchMinutes
		s.SubscribersGained += d.SubscribersGained
		weighted += d.AverageDurationSeconds * float64(d.Views)
	}
	if s.Views > 0 {
		s.AverageDurationSeconds = weighted / float64(s.Views)
	}
	return s
}
