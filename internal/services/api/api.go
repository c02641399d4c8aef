// Package api provides the HTTP API for the application
package api

import (
	"quotewall/internal/platform/config"
	"quotewall/internal/platform/logger"
	phttp "quotewall/internal/platform/net/http"
	"quotewall/internal/platform/store"

	"quotewall/internal/modkit"
	"quotewall/internal/modkit/httpkit"
	"quotewall/internal/modkit/module"
	"quotewall/internal/modkit/swaggerkit"

	metamod "quotewall/internal/services/api/meta/module"
	authmod "quotewall/internal/services/auth/module"
	engagementmod "quotewall/internal/services/engagement/module"
	feedmod "quotewall/internal/services/feed/module"
	quotesmod "quotewall/internal/services/quotes/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		RDS: opt.Store.RDS,
		MQ:  opt.Store.MQ,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// port-only modules first so their ports can feed the routed ones
	auth := authmod.New(deps)
	authPort := module.MustPortsOf[authmod.Ports](auth).Auth

	engagement := engagementmod.New(deps)
	engPorts := module.MustPortsOf[engagementmod.Ports](engagement)

	quotes := quotesmod.New(
		deps,
		modkit.WithPorts(quotesmod.Ports{
			Invalidator: engPorts.Invalidator,
			Auth:        authPort,
		}),
	)

	// the feed module owns the feed prefix and mounts the engagement
	// like/save endpoints from the engagement module's service port
	feed := feedmod.New(
		deps,
		modkit.WithPorts(feedmod.Ports{
			Engagement: engPorts.Service,
			Auth:       authPort,
		}),
	)

	meta := metamod.New(deps)

	mods := []module.Module{
		meta,
		auth,
		engagement,
		quotes,
		feed,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
