// Package httpkit provides handler and routing helpers that alias the platform http package
// modules use these so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "tubepulse/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope
	// Response is the HTTP response type
	Response = phttp.Response
	// Handler is the platform handler type
	Handler = phttp.Handler
	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a handler that takes no JSON body; a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Param returns a trimmed path parameter
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// RequiredParam returns a path parameter or an invalid argument error
func RequiredParam(r *http.Request, name string) (string, error) { return phttp.RequiredParam(r, name) }

// Query returns a trimmed query value or def
func Query(r *http.Request, name, def string) string { return phttp.Query(r, name, def) }

// QueryInt returns an int query value or def
func QueryInt(r *http.Request, name string, def int) (int, error) {
	return phttp.QueryInt(r, name, def)
}
