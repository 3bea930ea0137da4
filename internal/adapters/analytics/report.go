package analytics

import (
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	perr "tubepulse/internal/platform/errors"
	ptime "tubepulse/internal/platform/time"
)

// Column names the ingest path reads
const (
	ColDay               = "day"
	ColViews             = "views"
	ColMinutesWatched    = "estimatedMinutesWatched"
	ColSubscribersGained = "subscribersGained"
	ColAverageDuration   = "averageViewDuration"
	ColLikes             = "likes"
	ColComments          = "comments"
	ColViewerPercentage  = "viewerPercentage"

	ColAgeGroup      = "ageGroup"
	ColGender        = "gender"
	ColDeviceType    = "deviceType"
	ColTrafficSource = "insightTrafficSourceType"
)

// DailyMetrics is the metric list requested for total rows
var DailyMetrics = []string{ColViews, ColMinutesWatched, ColSubscribersGained, ColAverageDuration, ColLikes, ColComments}

// Report is a parsed reporting response whose rows are addressed by column name
type Report struct {
	index map[string]int
	rows  []gjson.Result
}

// ParseReport validates the envelope and indexes columnHeaders by name
// a response without rows is an empty report
func ParseReport(body []byte) (Report, error) {
	if !gjson.ValidBytes(body) {
		return Report{}, perr.JSONErrf("analytics report is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	headers := doc.Get("columnHeaders")
	if !headers.IsArray() {
		return Report{}, perr.Parsef("analytics report has no columnHeaders")
	}
	r := Report{index: map[string]int{}}
	for i, h := range headers.Array() {
		name := h.Get("name").String()
		if name == "" {
			return Report{}, perr.Parsef("analytics column %d has no name", i)
		}
		r.index[name] = i
	}
	if rows := doc.Get("rows"); rows.IsArray() {
		r.rows = rows.Array()
	}
	return r, nil
}

// Len is the number of rows
func (r Report) Len() int { return len(r.rows) }

// Has reports whether the report carries column name
func (r Report) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Row is one report row keyed by column name
type Row map[string]gjson.Result

// Rows returns every row keyed by column name; a row of the wrong width is a parse error at its position
func (r Report) Rows() ([]Row, []error) {
	out := make([]Row, 0, len(r.rows))
	var errs []error
	for i, raw := range r.rows {
		cells := raw.Array()
		if !raw.IsArray() || len(cells) != len(r.index) {
			errs = append(errs, perr.Parsef("analytics row %d has %d cells, want %d", i, len(cells), len(r.index)))
			continue
		}
		row := make(Row, len(r.index))
		for name, idx := range r.index {
			row[name] = cells[idx]
		}
		out = append(out, row)
	}
	return out, errs
}

func (row Row) cell(name string) (gjson.Result, error) {
	v, ok := row[name]
	if !ok {
		return gjson.Result{}, perr.WithField(perr.Parsef("analytics row is missing %s", name), name)
	}
	return v, nil
}

// Int reads an integral count; fractions and strings are parse errors
func (row Row) Int(name string) (int64, error) {
	v, err := row.cell(name)
	if err != nil {
		return 0, err
	}
	if v.Type != gjson.Number {
		return 0, perr.WithField(perr.Parsef("%s is %s, want number", name, v.Type), name)
	}
	n, convErr := strconv.ParseInt(v.Raw, 10, 64)
	if convErr != nil {
		if f := v.Float(); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return 0, perr.WithField(perr.Parsef("%s is %s, want integer", name, v.Raw), name)
	}
	return n, nil
}

// IntOr reads an integral count and falls back to def when the column is absent
func (row Row) IntOr(name string, def int64) (int64, error) {
	if _, ok := row[name]; !ok {
		return def, nil
	}
	return row.Int(name)
}

// Float reads a fractional measure
func (row Row) Float(name string) (float64, error) {
	v, err := row.cell(name)
	if err != nil {
		return 0, err
	}
	if v.Type != gjson.Number {
		return 0, perr.WithField(perr.Parsef("%s is %s, want number", name, v.Type), name)
	}
	return v.Float(), nil
}

// String reads a dimension value
func (row Row) String(name string) (string, error) {
	v, err := row.cell(name)
	if err != nil {
		return "", err
	}
	if v.Type != gjson.String || v.Str == "" {
		return "", perr.WithField(perr.Parsef("%s is %s, want non empty string", name, v.Type), name)
	}
	return v.Str, nil
}

// Date reads a YYYY-MM-DD column as a UTC day
func (row Row) Date(name string) (time.Time, error) {
	s, err := row.String(name)
	if err != nil {
		return time.Time{}, err
	}
	d, err := ptime.ParseDate(s)
	if err != nil {
		return time.Time{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeParse, "bad date"), name)
	}
	return d, nil
}
