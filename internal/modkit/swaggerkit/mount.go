// Package swaggerkit mounts Swagger UI over a generated OpenAPI document
package swaggerkit

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	phttp "tubepulse/internal/platform/net/http"
)

// Mount the Swagger UI and JSON document under /api/docs if enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON())
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
