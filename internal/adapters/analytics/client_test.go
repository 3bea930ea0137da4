package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "tubepulse/internal/platform/errors"
)

const okReport = `{
  "kind": "youtubeAnalytics#resultTable",
  "columnHeaders": [
    {"name": "day", "columnType": "DIMENSION", "dataType": "STRING"},
    {"name": "views", "columnType": "METRIC", "dataType": "INTEGER"},
    {"name": "averageViewDuration", "columnType": "METRIC", "dataType": "FLOAT"}
  ],
  "rows": [["2025-05-30", 1200, 61.5]]
}`

func TestQuerySendsParamsAndParses(t *testing.T) {
	t.Parallel()

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(okReport))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL + "/", Token: "default-token"})
	day := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	rep, err := c.Query(context.Background(), Query{
		EntityID: "UC1", Start: day, End: day,
		Metrics: []string{ColViews, ColAverageDuration}, Dimensions: []string{ColDay},
		Token: "channel-token",
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if rep.Len() != 1 {
		t.Fatalf("rows = %d", rep.Len())
	}

	q := got.URL.Query()
	if got.URL.Path != "/reports" || q.Get("ids") != "channel==UC1" || q.Get("startDate") != "2025-05-30" ||
		q.Get("metrics") != "views,averageViewDuration" || q.Get("dimensions") != "day" {
		t.Fatalf("request = %s", got.URL)
	}
	if h := got.Header.Get("Authorization"); h != "Bearer channel-token" {
		t.Fatalf("Authorization = %q", h)
	}
}

func TestQueryStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		body   string
		want   perr.ErrorCode
	}{
		{http.StatusUnauthorized, `{"error":"revoked"}`, perr.ErrorCodeUnauthorized},
		{http.StatusForbidden, `{"error":"scope"}`, perr.ErrorCodeForbidden},
		{http.StatusTooManyRequests, `{"error":"quota"}`, perr.ErrorCodeTooManyRequests},
		{http.StatusBadGateway, `oops`, perr.ErrorCodeUnavailable},
		{http.StatusOK, `not json`, perr.ErrorCodeJSON},
		{http.StatusOK, `{"rows":[]}`, perr.ErrorCodeParse},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))
		c := NewClient(Options{BaseURL: srv.URL})
		_, err := c.Query(context.Background(), Query{EntityID: "UC1", Metrics: DailyMetrics})
		srv.Close()
		if !perr.IsCode(err, tc.want) {
			t.Fatalf("status %d body %q: err = %v, want %v", tc.status, tc.body, err, tc.want)
		}
	}
}

func TestQueryTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(Options{BaseURL: srv.URL}).Query(ctx, Query{EntityID: "UC1", Metrics: DailyMetrics})
	if !perr.IsCode(err, perr.ErrorCodeTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestQueryValidatesInput(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Options{}).Query(context.Background(), Query{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}
