// Package module wires quotes into the API using modkit
package module

import (
	"net/http"

	modkit "quotewall/internal/modkit"
	"quotewall/internal/modkit/httpkit"
	"quotewall/internal/platform/net/middleware"
	str "quotewall/internal/platform/strings"
	quoteshttp "quotewall/internal/services/quotes/http"
	quotesrepo "quotewall/internal/services/quotes/repo"
	quotessvc "quotewall/internal/services/quotes/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)

	svc quotessvc.Service
}

// New constructs a quotes module with the provided dependencies and options
// inject Ports{Invalidator, Auth} to enable engagement cache cleanup and protected routes
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("quotes"), modkit.WithPrefix("/quotes")}, opts...)...)

	var in Ports
	if p, ok := b.Ports.(Ports); ok {
		in = p
	}

	repo := quotesrepo.NewPG()
	svc := quotessvc.New(deps.PG, repo, deps.RDS, in.Invalidator)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = adaptQuotesPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		quoteshttp.Register(r, m.svc)
		httpkit.Protected(r, in.Auth, func(pr httpkit.Router) {
			quoteshttp.RegisterProtected(pr, m.svc)
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// Ports are the cross module dependencies quotes accepts
type Ports struct {
	Invalidator CountInvalidator
	Auth        middleware.AuthPort
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
