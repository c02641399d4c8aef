// @title         Quotewall API
// @version       0.1.0
// @description   Quote wall with a social feed, likes and saves

package main

import (
	"context"
	"flag"

	"quotewall/internal/migrations"
	"quotewall/internal/modkit/repokit"
	"quotewall/internal/platform/config"
	"quotewall/internal/platform/logger"
	phttp "quotewall/internal/platform/net/http"
	"quotewall/internal/platform/store"

	"quotewall/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*
	rdsCfg := root.Prefix("SERVICE_REDIS_")
	natsCfg := root.Prefix("SERVICE_NATS_")

	// bring up logging early
	l := logger.Get()

	fMigrate := flag.Bool("migrate", false, "apply pending schema migrations and continue")
	flag.Parse()

	pgURL := pgCfg.MustString("DBURL")
	if *fMigrate {
		if err := migrations.Up(pgURL); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
		l.Info().Msg("migrations applied")
	}

	// open the platform store
	// redis and nats are optional, the engagement path degrades to
	// direct postgres writes when either is absent
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "quotewall-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			RDS: store.RedisConfig{
				Enabled:  rdsCfg.MayBool("ENABLED", true),
				Addr:     rdsCfg.MayString("ADDR", "127.0.0.1:6379"),
				Password: rdsCfg.MayString("PASSWORD", ""),
				DB:       rdsCfg.MayInt("DB", 0),
			},
			NATS: store.NATSConfig{
				Enabled: natsCfg.MayBool("ENABLED", true),
				URL:     natsCfg.MayString("URL", "nats://127.0.0.1:4222"),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// refuse to serve without a reachable postgres
	// redis and nats stay advisory, a down cache must not block boot
	if p, ok := any(st.PG).(interface{ Ping(context.Context) error }); ok {
		repokit.MustPing(context.Background(), "postgres", p)
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
