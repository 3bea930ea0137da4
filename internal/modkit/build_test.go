package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/module"
	phttp "tubepulse/internal/platform/net/http"
	kit "tubepulse/internal/platform/testkit"
)

type ports struct{ N int }

func TestNewRegistersAndMounts(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	var hits []string
	tagMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, "mw")
			next.ServeHTTP(w, r)
		})
	}
	m := New(
		WithName("demo"),
		WithPrefix(" demo/ "),
		WithPorts(ports{N: 3}),
		WithMiddlewares(tagMW),
		WithRegister(func(r httpkit.Router) {
			httpkit.Get(r, "/ping", func(*http.Request) (any, error) {
				hits = append(hits, "ping")
				return "pong", nil
			})
		}),
	)
	if p, ok := module.PortsAs[ports]("demo"); !ok || p.N != 3 {
		t.Fatalf("registry = %+v %v", p, ok)
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/demo/ping", nil))
	if rr.Code != 200 || len(hits) != 2 || hits[0] != "mw" {
		t.Fatalf("status %d hits %v", rr.Code, hits)
	}
}

func TestInlineModuleWithoutPorts(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	m := New(WithName("inline"), WithRegister(func(r httpkit.Router) {
		httpkit.Get(r, "/x", func(*http.Request) (any, error) { return 1, nil })
	}))
	if _, ok := module.PortsAs[ports]("inline"); ok {
		t.Fatalf("a module without ports must not register")
	}
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}

	kit.MustPanic(t, func() { WithPrefix("/") })
}
