// Package module wires the engagement service and exposes its ports
package module

import (
	"quotewall/internal/modkit"
	"quotewall/internal/modkit/httpkit"
	"quotewall/internal/services/engagement/counter"
	"quotewall/internal/services/engagement/domain"
	"quotewall/internal/services/engagement/events"
	"quotewall/internal/services/engagement/repo"
	"quotewall/internal/services/engagement/service"

	"github.com/nats-io/nats.go"
)

// Module defines the engagement module
// it mounts no routes of its own, the feed module owns the feed prefix
// and registers the like and save endpoints from this module's ports
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the engagement module with its ports
// redis and nats are optional, the service degrades to postgres alone
func New(deps modkit.Deps, opts ...service.ReconcilerOpt) *Module {
	binder := repo.NewPG()

	var js nats.JetStreamContext
	if deps.MQ != nil {
		js = deps.MQ.JS
	}

	// a nil *Counter must stay a nil interface, the service checks the
	// seam with == nil before touching it
	var cache service.Cache
	if c := counter.New(deps.RDS); c != nil {
		cache = c
	}
	var pub domain.PublisherPort
	if p := events.NewPublisher(js); p != nil {
		pub = p
	}

	svc := service.New(deps.PG, binder, cache, pub)

	m := &Module{deps: deps}
	m.ports = Ports{
		Service:     svc,
		Invalidator: svc,
		Reconciler:  service.NewReconciler(deps.Log, deps.PG, binder, js, opts...),
	}
	return m
}

// Ports returns the module ports (Service, Invalidator, Reconciler)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "engagement" }

// Prefix returns the module config prefix (none, routes live under feed)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
