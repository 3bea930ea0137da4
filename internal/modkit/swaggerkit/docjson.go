package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sync"

	"tubepulse/internal/core/version"
)

// Route describes one documented endpoint
type Route struct {
	Method  string
	Path    string
	Summary string
	Tag     string
}

var (
	docMu  sync.RWMutex
	routes []Route
)

// Document registers routes for the served OpenAPI document
func Document(rs ...Route) {
	docMu.Lock()
	routes = append(routes, rs...)
	docMu.Unlock()
}

// buildDoc renders a minimal OpenAPI 3 document from the registered routes
func buildDoc() map[string]any {
	docMu.RLock()
	defer docMu.RUnlock()

	paths := map[string]map[string]any{}
	for _, r := range routes {
		ops, ok := paths[r.Path]
		if !ok {
			ops = map[string]any{}
			paths[r.Path] = ops
		}
		ops[r.Method] = map[string]any{
			"summary":   r.Summary,
			"tags":      []string{r.Tag},
			"responses": map[string]any{"200": map[string]any{"description": "envelope"}},
		}
	}
	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": version.ServiceName + " API", "version": version.Version},
		"paths":   paths,
	}
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(buildDoc())
	}
}
