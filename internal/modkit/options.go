package modkit

import (
	"net/http"

	phttp "tubepulse/internal/platform/net/http"
	pstr "tubepulse/internal/platform/strings"
)

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(phttp.Router)
}

// WithName sets a module name used in logs and the registry
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts a module under a path prefix, normalized to one leading slash; blank mounts inline
func WithPrefix(prefix string) Option {
	if prefix != "" {
		prefix = pstr.MustPrefix(prefix)
	}
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects the port set the module exposes
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithRegister sets the function that attaches endpoints to the module router
func WithRegister(fn func(phttp.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}
