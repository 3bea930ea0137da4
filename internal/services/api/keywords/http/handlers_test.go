package http_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"tubepulse/internal/core/keywords"
	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/httpkit"
	phttp "tubepulse/internal/platform/net/http"
	"tubepulse/internal/services/api/keywords/domain"
	kwhttp "tubepulse/internal/services/api/keywords/http"
)

type stubSvc struct{ in domain.Input }

func (s *stubSvc) Top(_ context.Context, in domain.Input) (domain.Out, error) {
	s.in = in
	return domain.Out{Terms: []keywords.Term{}}, nil
}

func get(t *testing.T, s *stubSvc, target string) (int, map[string]any) {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/channels/{channelID}/keywords", func(r httpkit.Router) { kwhttp.Register(r, s) })
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, target, nil))
	var env map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, env
}

func TestKeywordsQuery(t *testing.T) {
	t.Parallel()

	s := &stubSvc{}
	code, env := get(t, s, "/channels/UC9/keywords?period=year&limit=7")
	if code != 200 {
		t.Fatalf("status = %d %v", code, env)
	}
	if s.in != (domain.Input{ChannelID: "UC9", Period: period.Year, Limit: 7}) {
		t.Fatalf("input = %+v", s.in)
	}
	data := env["data"].(map[string]any)
	if terms, ok := data["terms"].([]any); !ok || len(terms) != 0 {
		t.Fatalf("terms = %#v", data["terms"])
	}
}

func TestKeywordsBadLimit(t *testing.T) {
	t.Parallel()

	code, env := get(t, &stubSvc{}, "/channels/UC9/keywords?limit=lots")
	if code != 422 || env["field"] != "limit" {
		t.Fatalf("got %d %v", code, env)
	}
}
