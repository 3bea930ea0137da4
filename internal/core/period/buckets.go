package period

import (
	"cmp"
	"slices"
	"time"
)

// Video is the catalog slice bucketing needs
type Video struct {
	ID              string
	UploadedAt      time.Time
	DurationSeconds int
	Views           int64
}

// Bucket is one non-empty weekday or hour group
type Bucket struct {
	Key   int    `json:"key"`
	Label string `json:"label"`
	Views int64  `json:"views"`
}

var weekdayLabels = [7]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// mondayFirst maps time.Weekday to 0 for Monday through 6 for Sunday
func mondayFirst(d time.Weekday) int { return (int(d) + 6) % 7 }

// ByWeekday sums views by the upload weekday in loc, Monday first; nil loc is UTC
func ByWeekday(videos []Video, w Window, loc *time.Location) []Bucket {
	return bucket(videos, w, loc, 7, func(t time.Time) int { return mondayFirst(t.Weekday()) },
		func(k int) string { return weekdayLabels[k] })
}

// ByHour sums views by the upload hour in loc; nil loc is UTC
func ByHour(videos []Video, w Window, loc *time.Location) []Bucket {
	return bucket(videos, w, loc, 24, func(t time.Time) int { return t.Hour() },
		func(k int) string { return time.Date(0, 1, 1, k, 0, 0, 0, time.UTC).Format("15") })
}

func bucket(videos []Video, w Window, loc *time.Location, n int, key func(time.Time) int, label func(int) string) []Bucket {
	if loc == nil {
		loc = time.UTC
	}
	sums := make([]int64, n)
	seen := make([]bool, n)
	for _, v := range videos {
		if !w.Contains(v.UploadedAt) {
			continue
		}
		k := key(v.UploadedAt.In(loc))
		sums[k] += v.Views
		seen[k] = true
	}
	out := make([]Bucket, 0, n)
	for k := range n {
		if seen[k] {
			out = append(out, Bucket{Key: k, Label: label(k), Views: sums[k]})
		}
	}
	return out
}

// Share is a named slice of a total with its percentage
type Share struct {
	Name       string  `json:"name"`
	Views      int64   `json:"views"`
	Percentage Percent `json:"percentage"`
}

// Segments splits videos by duration; Bounds are ascending exclusive upper limits in seconds
type Segments struct {
	Bounds []int
	Names  []string
}

// DefaultSegments is short under a minute, medium under twenty minutes and long otherwise
func DefaultSegments() Segments {
	return Segments{Bounds: []int{60, 1200}, Names: []string{"short", "medium", "long"}}
}

// NewSegments validates two ascending positive bounds, else returns DefaultSegments and false
func NewSegments(bounds []int) (Segments, bool) {
	if len(bounds) != 2 || bounds[0] <= 0 || bounds[1] <= bounds[0] {
		return DefaultSegments(), false
	}
	s := DefaultSegments()
	s.Bounds = []int{bounds[0], bounds[1]}
	return s, true
}

func (s Segments) index(seconds int) int {
	for i, b := range s.Bounds {
		if seconds < b {
			return i
		}
	}
	return len(s.Bounds)
}

// ByDuration sums views per segment for videos uploaded in w; empty segments are omitted
func ByDuration(videos []Video, w Window, s Segments) []Share {
	sums := make([]int64, len(s.Names))
	seen := make([]bool, len(s.Names))
	var total int64
	for _, v := range videos {
		if !w.Contains(v.UploadedAt) {
			continue
		}
		i := s.index(v.DurationSeconds)
		sums[i] += v.Views
		seen[i] = true
		total += v.Views
	}
	out := make([]Share, 0, len(s.Names))
	for i, name := range s.Names {
		if seen[i] {
			out = append(out, Share{Name: name, Views: sums[i], Percentage: Percentage(sums[i], total)})
		}
	}
	return out
}

// Breakdown turns per value totals into shares sorted by views descending then name
func Breakdown(totals map[string]int64) []Share {
	var total int64
	for _, v := range totals {
		total += v
	}
	out := make([]Share, 0, len(totals))
	for name, v := range totals {
		out = append(out, Share{Name: name, Views: v, Percentage: Percentage(v, total)})
	}
	slices.SortFunc(out, func(a, b Share) int {
		if c := cmp.Compare(b.Views, a.Views); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
