// Package comments derives label distributions, representatives and top lists from comment records
package comments

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"tubepulse/internal/core/labels"
	"tubepulse/internal/core/period"
	perr "tubepulse/internal/platform/errors"
)

// Record is a captured comment; nil pointers mean the field was never set
type Record struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	ChannelID   string    `json:"channel_id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	LikeCount   *int64    `json:"like_count"`
	PublishedAt time.Time `json:"published_at"`
	Deleted     bool      `json:"-"`
	Sentiment   *string   `json:"sentiment"`
	SpeechAct   *string   `json:"speech_act"`
}

// Label returns the canonical label of r under kind, false when unset
func (r Record) Label(kind labels.Kind) (string, bool) {
	raw := r.Sentiment
	if kind == labels.KindSpeechAct {
		raw = r.SpeechAct
	}
	if raw == nil {
		return "", false
	}
	return kind.Canonical(*raw), true
}

// Filter selects live comments of a channel published inside a window
type Filter struct {
	ChannelID string
	Window    period.Window
}

// Match reports whether r passes f
func (f Filter) Match(r Record) bool {
	return !r.Deleted && r.ChannelID == f.ChannelID && f.Window.Contains(r.PublishedAt)
}

// Apply keeps the records that pass f, in input order
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Category is one row of a label distribution
type Category struct {
	Label      string         `json:"label"`
	Count      int64          `json:"count"`
	Percentage period.Percent `json:"percentage"`
}

// Distribution counts records per label; unset labels are left out of both the rows and the total
func Distribution(records []Record, kind labels.Kind) []Category {
	counts := map[string]int64{}
	var total int64
	for _, r := range records {
		l, ok := r.Label(kind)
		if !ok {
			continue
		}
		counts[l]++
		total++
	}
	out := make([]Category, 0, len(counts))
	for l, n := range counts {
		out = append(out, Category{Label: l, Count: n, Percentage: period.Percentage(n, total)})
	}
	slices.SortFunc(out, func(a, b Category) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// Representative is the chosen record of one category
type Representative struct {
	Category string `json:"category"`
	Record   Record `json:"record"`
}

// Representatives picks the most liked record per label, unset likes ranking lowest;
// ties go to the earliest published, then the smallest id. Output is sorted by label
func Representatives(records []Record, kind labels.Kind) []Representative {
	best := map[string]Record{}
	for _, r := range records {
		l, ok := r.Label(kind)
		if !ok {
			continue
		}
		if cur, seen := best[l]; !seen || better(r, cur) {
			best[l] = r
		}
	}
	out := make([]Representative, 0, len(best))
	for l, r := range best {
		out = append(out, Representative{Category: l, Record: r})
	}
	slices.SortFunc(out, func(a, b Representative) int { return cmp.Compare(a.Category, b.Category) })
	return out
}

// better orders by likes desc with nil last, then published asc, then id asc
func better(a, b Record) bool {
	if c := compareLikes(a.LikeCount, b.LikeCount); c != 0 {
		return c > 0
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.Before(b.PublishedAt)
	}
	return a.ID < b.ID
}

// compareLikes treats nil as lower than any count
func compareLikes(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

// Order picks the top list ranking
type Order string

// Orders
const (
	Latest    Order = "latest"
	MostLiked Order = "liked"
)

// ParseOrder accepts latest or liked; blank is latest
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Latest):
		return Latest, nil
	case string(MostLiked), "most_liked":
		return MostLiked, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unknown order %q", s), "order")
}

// Limit bounds
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ClampLimit maps n into [1, MaxLimit]; zero or less is DefaultLimit
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return min(n, MaxLimit)
}

// Top sorts a copy of records by order and truncates to the clamped limit
// latest breaks ties by id; liked puts unset likes last then falls back to latest
func Top(records []Record, order Order, limit int) []Record {
	out := slices.Clone(records)
	if out == nil {
		out = []Record{}
	}
	latest := func(a, b Record) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
	if order == MostLiked {
		slices.SortStableFunc(out, func(a, b Record) int {
			if c := compareLikes(b.LikeCount, a.LikeCount); c != 0 {
				return c
			}
			return latest(a, b)
		})
	} else {
		slices.SortStableFunc(out, latest)
	}
	if n := ClampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out
}
