package http_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/httpkit"
	phttp "tubepulse/internal/platform/net/http"
	"tubepulse/internal/services/api/analytics/domain"
	anhttp "tubepulse/internal/services/api/analytics/http"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

type stubSvc struct{ last domain.Input }

func (s *stubSvc) Trend(_ context.Context, in domain.Input) ([]period.Day, error) {
	s.last = in
	return []period.Day{}, nil
}
func (s *stubSvc) Weekday(_ context.Context, in domain.Input) ([]period.Bucket, error) {
	s.last = in
	return []period.Bucket{{Key: 0, Label: "MON", Views: 3}}, nil
}
func (s *stubSvc) Hour(context.Context, domain.Input) ([]period.Bucket, error) { return nil, nil }
func (s *stubSvc) Duration(context.Context, domain.Input) ([]period.Share, error) {
	return nil, nil
}
func (s *stubSvc) Summary(context.Context, domain.Input) (domain.SummaryOut, error) {
	return domain.SummaryOut{}, nil
}
func (s *stubSvc) Dimensions(_ context.Context, in domain.Input, k snapdom.DimensionKind) ([]period.Share, error) {
	s.last = in
	return []period.Share{{Name: string(k)}}, nil
}

func serve(t *testing.T, s *stubSvc, target string) (int, map[string]any) {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/channels/{channelID}/analytics", func(r httpkit.Router) { anhttp.Register(r, s) })
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, target, nil))
	var env map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, env
}

func TestTrendDefaultsToMonthAndReturnsEmptyArray(t *testing.T) {
	t.Parallel()

	s := &stubSvc{}
	code, env := serve(t, s, "/channels/UC1/analytics/trend?period=decade")
	if code != 200 {
		t.Fatalf("status = %d", code)
	}
	if s.last.ChannelID != "UC1" || s.last.Period != period.Month || s.last.Loc != time.UTC {
		t.Fatalf("input = %+v", s.last)
	}
	if data, ok := env["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("data = %#v", env["data"])
	}
}

func TestWeekdayTimeZone(t *testing.T) {
	t.Parallel()

	s := &stubSvc{}
	if code, _ := serve(t, s, "/channels/UC1/analytics/weekday?period=quarter&tz=Asia/Seoul"); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if s.last.Loc.String() != "Asia/Seoul" || s.last.Period != period.Quarter {
		t.Fatalf("input = %+v", s.last)
	}

	code, env := serve(t, s, "/channels/UC1/analytics/weekday?tz=Mars/Olympus")
	if code != 422 || env["field"] != "tz" {
		t.Fatalf("bad tz = %d %v", code, env)
	}
}

func TestDimensionKindIsValidated(t *testing.T) {
	t.Parallel()

	s := &stubSvc{}
	if code, _ := serve(t, s, "/channels/UC1/analytics/dimensions/device"); code != 200 {
		t.Fatalf("device status = %d", code)
	}
	code, env := serve(t, s, "/channels/UC1/analytics/dimensions/planet")
	if code != 422 || env["field"] != "kind" {
		t.Fatalf("bad kind = %d %v", code, env)
	}
}
