package store

import (
	"context"
	"fmt"
	"time"

	"quotewall/internal/platform/store/mq"
	"quotewall/internal/platform/store/pg"
	"quotewall/internal/platform/store/rds"
)

// openPG opens pg and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	// Connection guardrails: ping with retry/backoff using the *pool* directly
	const (
		maxAttempts    = 20
		pingTimeout    = 3 * time.Second
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx) // <-- no adapter, no SQL trace line
		cancel()

		if lastErr == nil {
			a := newPGAdapter(p) // publish adapter only after the pool is healthy
			s.PG = a
			return a, nil
		}
		if ctx.Err() != nil {
			p.Close() // close the pool we opened
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", maxAttempts, lastErr)
}

// openRDS opens redis and verifies reachability with a short retry
// redis is an advisory cache here, an unreachable instance degrades the
// store to a nil RDS seam instead of refusing to open
func openRDS(ctx context.Context, cfg Config, s *Store) (*rds.RDS, error) {
	r, err := rds.Open(ctx, rds.Config{
		Addr:     cfg.RDS.Addr,
		Password: cfg.RDS.Password,
		DB:       cfg.RDS.DB,
	})
	if err != nil {
		return nil, err
	}

	const (
		maxAttempts  = 3
		pingTimeout  = 2 * time.Second
		pingInterval = 250 * time.Millisecond
	)

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = r.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return r, nil
		}
		if ctx.Err() != nil {
			_ = r.Close()
			return nil, ctx.Err()
		}
		time.Sleep(pingInterval)
	}

	_ = r.Close()
	s.Log.Warn().Err(lastErr).
		Str("addr", cfg.RDS.Addr).
		Msg("redis unreachable, continuing without the counter cache")
	return nil, nil
}

// openMQ connects to nats; the client reconnects on its own after boot
func openMQ(ctx context.Context, cfg Config, _ *Store) (*mq.MQ, error) {
	name := cfg.NATS.Name
	if name == "" {
		name = cfg.AppName
	}
	m, err := mq.Open(ctx, mq.Config{URL: cfg.NATS.URL, Name: name})
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return m, nil
}
