// Package module wires the feed into the API using modkit
package module

import (
	"net/http"

	modkit "quotewall/internal/modkit"
	"quotewall/internal/modkit/httpkit"
	"quotewall/internal/platform/net/middleware"
	str "quotewall/internal/platform/strings"
	engagementdom "quotewall/internal/services/engagement/domain"
	engagementhttp "quotewall/internal/services/engagement/http"
	feedhttp "quotewall/internal/services/feed/http"
	feedrepo "quotewall/internal/services/feed/repo"
	feedsvc "quotewall/internal/services/feed/service"
)

// Module implements the modkit.Module interface
// it owns the feed prefix and mounts the engagement like and save
// endpoints alongside the listing, the engagement module has no routes
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)

	svc feedsvc.Service
}

// Ports are the cross module dependencies the feed accepts
type Ports struct {
	Engagement engagementdom.ServicePort
	Auth       middleware.AuthPort
}

// New constructs a feed module with the provided dependencies and options
// inject Ports{Engagement, Auth} for annotations and protected routes
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("feed"), modkit.WithPrefix("/feed")}, opts...)...)

	var in Ports
	if p, ok := b.Ports.(Ports); ok {
		in = p
	}

	svc := feedsvc.New(deps.PG, feedrepo.NewPG(), in.Engagement)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = adaptFeedPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		// the listing reads the viewer from context when credentials parse
		r.Use(httpkit.AuthOptional(in.Auth))
		feedhttp.Register(r, m.svc)
		httpkit.Protected(r, in.Auth, func(pr httpkit.Router) {
			feedhttp.RegisterProtected(pr, m.svc)
			engagementhttp.RegisterProtected(pr, in.Engagement)
		})
		if external != nil {
			external(r)
		}
	}
	return m
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
