package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	perr "tubepulse/internal/platform/errors"
)

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a pure JSON handler for POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}

// Param returns a trimmed path parameter
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// RequiredParam returns a path parameter or an invalid argument error naming it
func RequiredParam(r *http.Request, name string) (string, error) {
	v := Param(r, name)
	if v == "" {
		return "", perr.WithField(perr.InvalidArgf("%s is required", name), name)
	}
	return v, nil
}

// Query returns a trimmed query value or def
func Query(r *http.Request, name, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return def
}

// QueryInt returns an int query value or def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	s := Query(r, name, "")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, perr.WithField(perr.InvalidArgf("%s must be an integer", name), name)
	}
	return n, nil
}
