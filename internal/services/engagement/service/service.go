// Package service contains engagement workflows
package service

import (
	"context"
	"time"

	"quotewall/internal/modkit/repokit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/logger"
	"quotewall/internal/services/engagement/domain"
	"quotewall/internal/services/engagement/repo"

	"github.com/google/uuid"
)

// publishTimeout bounds the best effort event publish on the write path
const publishTimeout = 2 * time.Second

// Service defines the service contract for engagement
type Service interface{ domain.ServicePort }

// Cache is the redis fast path the service writes through
// *counter.Counter is the production implementation
type Cache interface {
	AddMember(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error)
	RemoveMember(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error)
	MembersAmong(ctx context.Context, kind domain.Kind, userID string, quoteIDs []string) (map[string]bool, error)
	IncrLikes(ctx context.Context, quoteID string) (int64, error)
	DecrLikes(ctx context.Context, quoteID string) (int64, error)
	Counts(ctx context.Context, quoteIDs []string) (map[string]int64, []string, error)
	SeedCount(ctx context.Context, quoteID string, n int64) error
	InvalidateQuote(ctx context.Context, quoteID string) error
}

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cache  Cache
	pub    domain.PublisherPort
}

// New creates a new engagement service
// cache and pub may be nil, writes then go straight to postgres
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cache Cache, pub domain.PublisherPort) *Svc {
	if db == nil {
		panic("engagement.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("engagement.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, cache: cache, pub: pub}
}

func validateEdge(kind domain.Kind, userID, quoteID string) error {
	if !kind.Valid() {
		return perr.InvalidArgf("unknown engagement kind %q", kind)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return perr.InvalidArgf("invalid user id %q", userID)
	}
	if _, err := uuid.Parse(quoteID); err != nil {
		return perr.InvalidArgf("invalid quote id %q", quoteID)
	}
	return nil
}

// Mark records an engagement edge
// cache path: set membership plus like tally, then a best effort publish
// cache down: the edge goes straight to postgres and the response is exact
func (s *Svc) Mark(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, domain.MarkOut, error) {
	if err := validateEdge(kind, userID, quoteID); err != nil {
		return false, domain.MarkOut{}, err
	}
	ok, err := s.Repo.QuoteExists(ctx, quoteID)
	if err != nil {
		return false, domain.MarkOut{}, err
	}
	if !ok {
		return false, domain.MarkOut{}, perr.NotFoundf("quote %s not found", quoteID)
	}

	out := domain.MarkOut{QuoteID: quoteID, Marked: true}

	if s.cache != nil {
		added, cerr := s.cache.AddMember(ctx, kind, userID, quoteID)
		if cerr == nil {
			if added && kind == domain.KindLike {
				if n, ierr := s.cache.IncrLikes(ctx, quoteID); ierr == nil {
					out.Count = &n
				} else {
					logger.C(ctx).Warn().Err(ierr).Str("quote_id", quoteID).Msg("like tally bump failed")
				}
			}
			if added {
				s.publish(ctx, domain.Event{Kind: kind, Action: domain.ActionAdd, UserID: userID, QuoteID: quoteID, At: time.Now().UTC()})
			}
			return added, out, nil
		}
		logger.C(ctx).Warn().Err(cerr).Msg("engagement cache unavailable, writing direct")
	}

	added, err := s.Repo.AddEdge(ctx, kind, userID, quoteID)
	if err != nil {
		return false, domain.MarkOut{}, err
	}
	if kind == domain.KindLike {
		if n, cerr := s.Repo.LikeCount(ctx, quoteID); cerr == nil {
			out.Count = &n
		}
	}
	return added, out, nil
}

// Unmark removes an engagement edge, absent edges are a quiet no-op
func (s *Svc) Unmark(ctx context.Context, kind domain.Kind, userID, quoteID string) error {
	if err := validateEdge(kind, userID, quoteID); err != nil {
		return err
	}

	if s.cache != nil {
		removed, cerr := s.cache.RemoveMember(ctx, kind, userID, quoteID)
		if cerr == nil {
			if removed && kind == domain.KindLike {
				if _, derr := s.cache.DecrLikes(ctx, quoteID); derr != nil {
					logger.C(ctx).Warn().Err(derr).Str("quote_id", quoteID).Msg("like tally drop failed")
				}
			}
			if removed {
				s.publish(ctx, domain.Event{Kind: kind, Action: domain.ActionRemove, UserID: userID, QuoteID: quoteID, At: time.Now().UTC()})
			}
			return nil
		}
		logger.C(ctx).Warn().Err(cerr).Msg("engagement cache unavailable, writing direct")
	}

	if _, err := s.Repo.RemoveEdge(ctx, kind, userID, quoteID); err != nil {
		return err
	}
	return nil
}

// publish hands the event to the queue best effort
// the cache already answered the user, a lost event only delays the
// durable copy until the next reconciliation sweep
func (s *Svc) publish(ctx context.Context, ev domain.Event) {
	if s.pub == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.pub.Publish(pctx, ev); err != nil {
		logger.C(ctx).Warn().Err(err).
			Str("kind", string(ev.Kind)).
			Str("action", string(ev.Action)).
			Str("quote_id", ev.QuoteID).
			Msg("engagement publish failed")
	}
}

// LikeCounts returns tallies for a page of quotes
// cached values win, misses are recomputed from postgres and seeded back
func (s *Svc) LikeCounts(ctx context.Context, quoteIDs []string) (map[string]int64, error) {
	if len(quoteIDs) == 0 {
		return map[string]int64{}, nil
	}

	if s.cache != nil {
		cached, missing, err := s.cache.Counts(ctx, quoteIDs)
		if err == nil {
			if len(missing) == 0 {
				return cached, nil
			}
			fromDB, derr := s.Repo.LikeCounts(ctx, missing)
			if derr != nil {
				return nil, derr
			}
			for id, n := range fromDB {
				cached[id] = n
				if serr := s.cache.SeedCount(ctx, id, n); serr != nil {
					logger.C(ctx).Debug().Err(serr).Str("quote_id", id).Msg("like tally seed failed")
				}
			}
			return cached, nil
		}
		logger.C(ctx).Warn().Err(err).Msg("engagement cache unavailable, counting direct")
	}

	return s.Repo.LikeCounts(ctx, quoteIDs)
}

// MarksFor returns the viewer's liked and saved state for a page of quotes
func (s *Svc) MarksFor(ctx context.Context, userID string, quoteIDs []string) (domain.Marks, error) {
	if len(quoteIDs) == 0 {
		return domain.Marks{Liked: map[string]bool{}, Saved: map[string]bool{}}, nil
	}

	if s.cache != nil {
		liked, lerr := s.cache.MembersAmong(ctx, domain.KindLike, userID, quoteIDs)
		if lerr == nil {
			saved, serr := s.cache.MembersAmong(ctx, domain.KindSave, userID, quoteIDs)
			if serr == nil {
				return domain.Marks{Liked: liked, Saved: saved}, nil
			}
			logger.C(ctx).Warn().Err(serr).Msg("engagement cache unavailable, reading marks direct")
		} else {
			logger.C(ctx).Warn().Err(lerr).Msg("engagement cache unavailable, reading marks direct")
		}
	}

	return s.Repo.MarksFor(ctx, userID, quoteIDs)
}

// InvalidateQuote cleans engagement state after a quote delete
// edge rows normally go with the quote via FK cascade, the explicit
// sweep keeps the cleanup correct even without that schema wiring
//
// only the cached tally is dropped on the redis side, the quote id can
// linger in per-user membership sets since sweeping every likes:{user}
// and saves:{user} set would mean scanning the whole keyspace
// a stale member only affects MarksFor on a quote that 404s anyway
func (s *Svc) InvalidateQuote(ctx context.Context, quoteID string) error {
	if err := s.Repo.RemoveQuoteEdges(ctx, quoteID); err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateQuote(ctx, quoteID)
}
