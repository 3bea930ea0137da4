package httpkit

import (
	"net/http"

	phttp "tubepulse/internal/platform/net/http"
)

// Get registers a no-body handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON mounts a bound and validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}
