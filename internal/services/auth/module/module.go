// Package module wires the auth seam and exposes its port
package module

import (
	"quotewall/internal/modkit"
	"quotewall/internal/modkit/httpkit"
	"quotewall/internal/platform/net/middleware"
	"quotewall/internal/services/auth/repo"
	"quotewall/internal/services/auth/service"
)

// Module defines the auth module
// it mounts no routes, it only resolves bearer tokens for the others
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// Ports holds the ports exposed by the auth module
type Ports struct {
	Auth middleware.AuthPort
}

// New constructs the auth module with its port
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Auth: httpkit.NewPortFunc(svc.Resolve)}
	return m
}

// Ports returns the module ports (Auth)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "auth" }

// Prefix returns the module config prefix (none, no routes)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
