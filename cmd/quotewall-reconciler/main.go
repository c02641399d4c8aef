package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"quotewall/internal/modkit"
	"quotewall/internal/modkit/module"
	"quotewall/internal/modkit/repokit"
	"quotewall/internal/platform/config"
	"quotewall/internal/platform/logger"
	"quotewall/internal/platform/store"

	engagementmod "quotewall/internal/services/engagement/module"
	"quotewall/internal/services/engagement/service"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	natsCfg := root.Prefix("SERVICE_NATS_")

	l := logger.Get()

	var (
		fBatch   = flag.Int("batch", 256, "events fetched per apply cycle")
		fMaxWait = flag.Duration("max-wait", 5*time.Second, "how long a fetch blocks waiting for events")
	)
	flag.Parse()

	// the reconciler needs both backends, there is nothing to drain without
	// the stream and nowhere to land events without postgres
	st, err := store.Open(context.Background(), store.Config{
		AppName: "quotewall-reconciler",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		NATS: store.NATSConfig{
			Enabled: true,
			URL:     natsCfg.MayString("URL", "nats://127.0.0.1:4222"),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// both backends are hard requirements here, fail loudly before
	// the consume loops start
	repokit.MustGuard(context.Background(), st)

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		MQ:  st.MQ,
		Log: *l,
	}

	mod := engagementmod.New(deps,
		service.WithBatchSize(*fBatch),
		service.WithMaxWait(*fMaxWait),
	)
	module.Register(mod.Name(), mod.Ports())

	ports := module.MustPortsOf[engagementmod.Ports](mod)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ports.Reconciler.Run(ctx); err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("reconciler failed")
	}
	l.Info().Msg("reconciler stopped")
}
