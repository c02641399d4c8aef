package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"quotewall/internal/modkit/repokit"
	"quotewall/internal/platform/logger"
	"quotewall/internal/services/engagement/domain"
	"quotewall/internal/services/engagement/events"
	"quotewall/internal/services/engagement/repo"

	"github.com/nats-io/nats.go"
)

const (
	defaultBatchSize = 256
	defaultMaxWait   = 5 * time.Second

	backoffBase = 500 * time.Millisecond
	backoffCap  = 30 * time.Second
)

// fetcher is the slice of the jetstream subscription the loop needs
type fetcher interface {
	Fetch(batch int, opts ...nats.PullOpt) ([]*nats.Msg, error)
}

// subscribeFunc opens the pull consumer for one kind
type subscribeFunc func(kind domain.Kind) (fetcher, error)

// Reconciler drains engagement events into postgres
// one pull consumer per kind, batches collapsed to the last action per
// (user, quote) pair, the whole batch acked only after the tx commits
type Reconciler struct {
	log     logger.Logger
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Repo]
	js      nats.JetStreamContext
	batch   int
	maxWait time.Duration

	subscribe subscribeFunc
	ack       func(*nats.Msg) error
}

// ReconcilerOpt tweaks a Reconciler
type ReconcilerOpt func(*Reconciler)

// WithBatchSize caps how many events one apply cycle takes
func WithBatchSize(n int) ReconcilerOpt {
	return func(r *Reconciler) {
		if n > 0 {
			r.batch = n
		}
	}
}

// WithMaxWait bounds how long a fetch blocks waiting for events
func WithMaxWait(d time.Duration) ReconcilerOpt {
	return func(r *Reconciler) {
		if d > 0 {
			r.maxWait = d
		}
	}
}

// NewReconciler builds the reconciler over a jetstream context
func NewReconciler(log logger.Logger, db repokit.TxRunner, binder repokit.Binder[repo.Repo], js nats.JetStreamContext, opts ...ReconcilerOpt) *Reconciler {
	if db == nil {
		panic("engagement.Reconciler requires a non nil TxRunner")
	}
	if binder == nil {
		panic("engagement.Reconciler requires a non nil Repo binder")
	}
	r := &Reconciler{
		log: log,
		// every apply tx gets a statement timeout, a stuck batch must
		// not hold the consumer forever
		db:      repokit.WithBeginHooks(db, statementTimeout),
		binder:  binder,
		js:      js,
		batch:   defaultBatchSize,
		maxWait: defaultMaxWait,
		ack:     func(m *nats.Msg) error { return m.Ack() },
	}
	r.subscribe = func(kind domain.Kind) (fetcher, error) {
		return r.js.PullSubscribe(
			events.Subject(kind),
			events.Durable(kind),
			nats.ManualAck(),
			nats.AckExplicit(),
			nats.BindStream(events.StreamName),
		)
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func statementTimeout(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, "set local statement_timeout = '30s'")
	return err
}

// Run blocks until ctx is done, draining both kinds concurrently
// stream provisioning is waited on a bounded number of times, after that
// the process is considered misconfigured and Run fails loudly
func (r *Reconciler) Run(ctx context.Context) error {
	if r.js == nil {
		return errors.New("engagement reconciler: no jetstream connection")
	}
	if err := events.EnsureStream(ctx, r.js); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, kind := range []domain.Kind{domain.KindLike, domain.KindSave} {
		wg.Add(1)
		go func(k domain.Kind) {
			defer wg.Done()
			r.consume(ctx, k)
		}(kind)
	}
	wg.Wait()
	return ctx.Err()
}

// consume is {fetch, collapse, apply, ack} forever for one kind
// transient failures back off with a cap, the loop never exits on its own
func (r *Reconciler) consume(ctx context.Context, kind domain.Kind) {
	log := r.log.With().Str("kind", string(kind)).Logger()

	var sub fetcher
	backoff := backoffBase
	for ctx.Err() == nil {
		if sub == nil {
			s, err := r.subscribe(kind)
			if err != nil {
				log.Warn().Err(err).Dur("backoff", backoff).Msg("reconciler subscribe failed")
				if !sleep(ctx, backoff) {
					return
				}
				backoff = nextBackoff(backoff)
				continue
			}
			sub = s
		}

		msgs, err := sub.Fetch(r.batch, nats.MaxWait(r.maxWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			// the subscription may be gone for good, rebuild it on the
			// next pass instead of fetching from a dead handle
			sub = nil
			log.Warn().Err(err).Dur("backoff", backoff).Msg("reconciler fetch failed")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = backoffBase

		if len(msgs) == 0 {
			continue
		}
		if err := r.applyBatch(ctx, msgs); err != nil {
			// no acks, the whole batch comes back and replays safely
			log.Warn().Err(err).Int("events", len(msgs)).Msg("reconciler apply failed, batch will redeliver")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		for _, m := range msgs {
			if err := r.ack(m); err != nil {
				log.Warn().Err(err).Msg("reconciler ack failed")
			}
		}
		log.Debug().Int("events", len(msgs)).Msg("reconciler batch applied")
	}
}

// applyBatch collapses the batch and lands the survivors in one tx
func (r *Reconciler) applyBatch(ctx context.Context, msgs []*nats.Msg) error {
	collapsed := Collapse(decodeAll(r.log, msgs))
	if len(collapsed) == 0 {
		return nil
	}
	return repokit.WithTx(ctx, r.db, func(q repokit.Queryer) error {
		return r.binder.Bind(q).Apply(ctx, collapsed)
	})
}

// Collapse keeps only the last action per (user, quote) pair, in first
// seen order, so a like/unlike/like toggle burst costs one write
func Collapse(events []domain.Event) []domain.Event {
	last := make(map[string]int, len(events))
	out := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		k := string(ev.Kind) + ":" + ev.Key()
		if i, ok := last[k]; ok {
			out[i] = ev
			continue
		}
		last[k] = len(out)
		out = append(out, ev)
	}
	return out
}

// decodeAll parses messages, dropping ones that do not parse
// a poison message would otherwise wedge the consumer forever
func decodeAll(log logger.Logger, msgs []*nats.Msg) []domain.Event {
	out := make([]domain.Event, 0, len(msgs))
	for _, m := range msgs {
		ev, err := events.Decode(m.Data)
		if err != nil {
			log.Warn().Err(err).Str("subject", m.Subject).Msg("undecodable engagement event dropped")
			continue
		}
		out = append(out, ev)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > backoffCap {
		return backoffCap
	}
	return d
}
