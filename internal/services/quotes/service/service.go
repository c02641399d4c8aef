// Package service contains quote workflows
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"quotewall/internal/modkit/repokit"
	"quotewall/internal/platform/cursor"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/logger"
	"quotewall/internal/platform/store/rds"
	"quotewall/internal/services/quotes/domain"
	"quotewall/internal/services/quotes/repo"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	randomCacheKey = "quotes:random"
	randomCacheTTL = 60 * time.Second

	defaultListLimit = 20
	maxListLimit     = 100
)

// Service defines the service contract for quotes
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cache  *rds.RDS
	inval  domain.CountInvalidator
}

// New creates a new quotes service
// cache may be nil, random quote caching degrades to the database
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cache *rds.RDS, inval domain.CountInvalidator) *Svc {
	if db == nil {
		panic("quotes.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("quotes.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, cache: cache, inval: inval}
}

// Create inserts a new quote owned by userID
func (s *Svc) Create(ctx context.Context, userID string, in domain.CreateQuoteInput) (domain.Quote, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.Quote{}, perr.InvalidArgf("invalid user id %q", userID)
	}
	body := strings.TrimSpace(norm.NFC.String(in.Body))
	if body == "" {
		return domain.Quote{}, perr.InvalidArgf("quote body is empty")
	}
	attribution := strings.TrimSpace(norm.NFC.String(in.Attribution))

	row, err := s.Repo.Insert(ctx, userID, body, attribution)
	if err != nil {
		return domain.Quote{}, err
	}
	return toQuote(row), nil
}

// Get fetches a quote by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Quote{}, perr.InvalidArgf("invalid quote id %q", id)
	}
	row, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}
	return toQuote(row), nil
}

// List pages the public wall newest first
func (s *Svc) List(ctx context.Context, token string, limit int) (domain.QuotePage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		return domain.QuotePage{}, perr.InvalidArgf("limit must be between 1 and %d", maxListLimit)
	}

	var after *repo.Cursor
	if token != "" {
		k, err := cursor.Decode(token)
		if err != nil {
			return domain.QuotePage{}, perr.InvalidArgf("malformed listing cursor")
		}
		after = &repo.Cursor{CreatedAt: k.CreatedAt, ID: k.ID}
	}

	rows, err := s.Repo.List(ctx, after, limit+1)
	if err != nil {
		return domain.QuotePage{}, err
	}

	page := domain.QuotePage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = cursor.Encode(cursor.Key{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Quotes = make([]domain.Quote, len(rows))
	for i, r := range rows {
		page.Quotes[i] = toQuote(r)
	}
	return page, nil
}

// Mine lists the caller's own quotes newest first
func (s *Svc) Mine(ctx context.Context, userID string, limit int) ([]domain.Quote, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, perr.InvalidArgf("invalid user id %q", userID)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		return nil, perr.InvalidArgf("limit must be between 1 and %d", maxListLimit)
	}
	rows, err := s.Repo.ListByAuthor(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Quote, len(rows))
	for i, r := range rows {
		out[i] = toQuote(r)
	}
	return out, nil
}

// Random returns a random quote, served from a short lived cache
func (s *Svc) Random(ctx context.Context) (domain.Quote, error) {
	if q, ok := s.cachedRandom(ctx); ok {
		return q, nil
	}

	row, err := s.Repo.Random(ctx)
	if err != nil {
		return domain.Quote{}, err
	}
	q := toQuote(row)
	s.storeRandom(ctx, q)
	return q, nil
}

// Update rewrites an owned quote
// non owners get not found rather than forbidden, editing someone
// else's quote should not reveal that it exists
func (s *Svc) Update(ctx context.Context, userID, id string, in domain.UpdateQuoteInput) (domain.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Quote{}, perr.InvalidArgf("invalid quote id %q", id)
	}
	body := strings.TrimSpace(norm.NFC.String(in.Body))
	if body == "" {
		return domain.Quote{}, perr.InvalidArgf("quote body is empty")
	}
	attribution := strings.TrimSpace(norm.NFC.String(in.Attribution))

	author, err := s.Repo.AuthorOf(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}
	if author != userID {
		return domain.Quote{}, perr.NotFoundf("quote %s not found", id)
	}

	row, err := s.Repo.Update(ctx, id, body, attribution)
	if err != nil {
		return domain.Quote{}, err
	}
	return toQuote(row), nil
}

// Delete removes a quote when userID owns it
func (s *Svc) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return perr.InvalidArgf("invalid quote id %q", id)
	}
	author, err := s.Repo.AuthorOf(ctx, id)
	if err != nil {
		return err
	}
	if author != userID {
		return perr.NotFoundf("quote %s not found", id)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.inval != nil {
		if err := s.inval.InvalidateQuote(ctx, id); err != nil {
			logger.C(ctx).Warn().Err(err).Str("quote_id", id).Msg("engagement invalidate failed")
		}
	}
	return nil
}

// cachedRandom reads the random quote cache, treating any redis error as a miss
func (s *Svc) cachedRandom(ctx context.Context) (domain.Quote, bool) {
	if s.cache == nil || s.cache.C == nil {
		return domain.Quote{}, false
	}
	raw, err := s.cache.C.Get(ctx, randomCacheKey).Bytes()
	if err != nil {
		return domain.Quote{}, false
	}
	var q domain.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Quote{}, false
	}
	return q, true
}

// storeRandom writes the cache best effort
func (s *Svc) storeRandom(ctx context.Context, q domain.Quote) {
	if s.cache == nil || s.cache.C == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := s.cache.C.Set(ctx, randomCacheKey, raw, randomCacheTTL).Err(); err != nil {
		logger.C(ctx).Debug().Err(err).Msg("random quote cache write failed")
	}
}

func toQuote(r repo.RowQuote) domain.Quote {
	return domain.Quote{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Body:        r.Body,
		Attribution: r.Attribution,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
