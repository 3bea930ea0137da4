package modkit

import (
	"net/http"

	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/module"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(httpkit.Router)
}

// Build applies Option funcs and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mounted is a Module backed by a Built value
type Mounted struct{ b Built }

// New builds a Module from options and records its ports in the registry under its name
func New(opts ...Option) Mounted {
	b := Build(opts...)
	if b.Name != "" && b.Ports != nil {
		module.Register(b.Name, b.Ports)
	}
	return Mounted{b: b}
}

// Name returns the module name
func (m Mounted) Name() string { return m.b.Name }

// Ports returns the module port set
func (m Mounted) Ports() any { return m.b.Ports }

// MountRoutes mounts the module under its prefix with its middleware, or inline without a prefix
func (m Mounted) MountRoutes(r httpkit.Router) {
	if m.b.Prefix == "" {
		r.Group(func(g httpkit.Router) {
			if len(m.b.Mw) > 0 {
				g.Use(m.b.Mw...)
			}
			m.b.Register(g)
		})
		return
	}
	httpkit.MountUnder(r, m.b.Prefix, m.b.Mw, m.b.Register)
}
