package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"tubepulse/internal/modkit/module"
	"tubepulse/internal/platform/config"
	phttp "tubepulse/internal/platform/net/http"
	"tubepulse/internal/platform/store"
	"tubepulse/internal/platform/testkit/dbfake"
)

type stubSearch struct{ calls int }

func (s *stubSearch) Search(context.Context, string, string, int) (json.RawMessage, error) {
	s.calls++
	return json.RawMessage(`{"items":[]}`), nil
}

func newMux(t *testing.T, search *stubSearch) http.Handler {
	t.Helper()
	module.Reset()
	t.Cleanup(module.Reset)

	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), Options{
		Config:        config.New(),
		Store:         &store.Store{PG: &dbfake.Q{}},
		EnableSwagger: true,
		Search:        search,
	})
	return m
}

func do(t *testing.T, h http.Handler, method, path string) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	var env map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&env)
	return rr.Code, env
}

func TestMountComposesModules(t *testing.T) {
	s := &stubSearch{}
	h := newMux(t, s)

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/meta/health", 200},
		{"/api/v1/channels/UC1/analytics/trend?period=quarter", 200},
		{"/api/v1/channels/UC1/analytics/dimensions/device", 200},
		{"/api/v1/channels/UC1/keywords?limit=5", 200},
		{"/api/v1/search?keyword=cats", 200},
		{"/api/v1/search", 422},
		{"/api/v1/nope", 404},
	}
	for _, tc := range cases {
		if code, env := do(t, h, http.MethodGet, tc.path); code != tc.want {
			t.Fatalf("%s: status %d want %d (%v)", tc.path, code, tc.want, env)
		}
	}
	if s.calls != 1 {
		t.Fatalf("search calls = %d", s.calls)
	}

	_, env := do(t, h, http.MethodGet, "/api/v1/channels/UC1/analytics/trend")
	if data, ok := env["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("empty trend = %#v", env["data"])
	}

	for _, name := range []string{"snapshots", "analytics", "comments", "keywords", "search"} {
		if !hasName(name) {
			t.Fatalf("module %s not registered: %v", name, module.Names())
		}
	}
}

func TestCommentsRequireBody(t *testing.T) {
	h := newMux(t, &stubSearch{})
	if code, _ := do(t, h, http.MethodPost, "/api/v1/comments/top"); code != 400 {
		t.Fatalf("status = %d", code)
	}
}

func TestSwaggerDocument(t *testing.T) {
	h := newMux(t, &stubSearch{})
	code, env := do(t, h, http.MethodGet, "/api/docs/doc.json")
	if code != 200 {
		t.Fatalf("status = %d", code)
	}
	paths := env["paths"].(map[string]any)
	if _, ok := paths["/api/v1/search"]; !ok {
		t.Fatalf("search route undocumented")
	}
}

func hasName(name string) bool {
	for _, n := range module.Names() {
		if n == name {
			return true
		}
	}
	return false
}
