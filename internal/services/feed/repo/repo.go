// Package repo provides postgres access for feed listings
package repo

import (
	"context"
	"time"

	"quotewall/internal/modkit/repokit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/store"
	engagement "quotewall/internal/services/engagement/domain"
)

// Repo defines the repository contract for feed pages
type Repo interface {
	Newest(ctx context.Context, after *Cursor, limit int) ([]RowFeedQuote, error)
	Popular(ctx context.Context, offset, limit int) ([]RowFeedQuote, error)
	Marked(ctx context.Context, kind engagement.Kind, userID string, limit int) ([]RowFeedQuote, error)
}

// Cursor is the keyset position for newest sort
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// RowFeedQuote is a quote row plus its durable like tally
type RowFeedQuote struct {
	ID          string
	AuthorID    string
	Body        string
	Attribution string
	CreatedAt   time.Time
	LikeCount   int64
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanFeed(row store.Row) (RowFeedQuote, error) {
	var r RowFeedQuote
	if err := row.Scan(&r.ID, &r.AuthorID, &r.Body, &r.Attribution, &r.CreatedAt, &r.LikeCount); err != nil {
		return RowFeedQuote{}, err
	}
	return r, nil
}

// Newest pages strictly descending by (created_at, id)
// the keyset predicate keeps pages stable while new quotes land
func (r *queries) Newest(ctx context.Context, after *Cursor, limit int) ([]RowFeedQuote, error) {
	const base = `
select q.id::text, q.author_id::text, q.body, q.attribution, q.created_at,
       coalesce(l.n, 0)
from quotes q
left join (
  select quote_id, count(*) as n
  from quote_likes
  group by quote_id
) l on l.quote_id = q.id
`
	var (
		out []RowFeedQuote
		err error
	)
	if after != nil {
		out, err = store.Many(ctx, r.q, scanFeed, base+`
where (q.created_at, q.id) < ($1, $2)
order by q.created_at desc, q.id desc
limit $3
`, after.CreatedAt, after.ID, limit)
	} else {
		out, err = store.Many(ctx, r.q, scanFeed, base+`
order by q.created_at desc, q.id desc
limit $1
`, limit)
	}
	if err != nil {
		return nil, perr.FromPostgres(err, "newest feed")
	}
	return out, nil
}

// Popular ranks by durable like count, recency breaks ties
// offset drift under concurrent likes is tolerated for this sort
func (r *queries) Popular(ctx context.Context, offset, limit int) ([]RowFeedQuote, error) {
	const sql = `
select q.id::text, q.author_id::text, q.body, q.attribution, q.created_at,
       coalesce(l.n, 0) as like_count
from quotes q
left join (
  select quote_id, count(*) as n
  from quote_likes
  group by quote_id
) l on l.quote_id = q.id
order by like_count desc, q.created_at desc, q.id desc
offset $1
limit $2
`
	out, err := store.Many(ctx, r.q, scanFeed, sql, offset, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "popular feed")
	}
	return out, nil
}

// Marked lists the quotes a user liked or saved, most recent mark first
func (r *queries) Marked(ctx context.Context, kind engagement.Kind, userID string, limit int) ([]RowFeedQuote, error) {
	table := "quote_likes"
	if kind == engagement.KindSave {
		table = "saved_quotes"
	}
	sql := `
select q.id::text, q.author_id::text, q.body, q.attribution, q.created_at,
       coalesce(l.n, 0)
from ` + table + ` e
join quotes q on q.id = e.quote_id
left join (
  select quote_id, count(*) as n
  from quote_likes
  group by quote_id
) l on l.quote_id = q.id
where e.user_id = $1
order by e.created_at desc, q.id desc
limit $2
`
	out, err := store.Many(ctx, r.q, scanFeed, sql, userID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "marked feed")
	}
	return out, nil
}
