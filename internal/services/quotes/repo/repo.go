// Package repo provides postgres access for quotes
package repo

import (
	"context"
	"errors"
	"time"

	"quotewall/internal/modkit/repokit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// Repo defines the repository contract for quotes
type Repo interface {
	Insert(ctx context.Context, authorID, body, attribution string) (RowQuote, error)
	GetByID(ctx context.Context, id string) (RowQuote, error)
	List(ctx context.Context, after *Cursor, limit int) ([]RowQuote, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]RowQuote, error)
	Random(ctx context.Context) (RowQuote, error)
	Update(ctx context.Context, id, body, attribution string) (RowQuote, error)
	Delete(ctx context.Context, id string) error
	AuthorOf(ctx context.Context, id string) (string, error)
}

// Cursor is the keyset position for the public listing
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// RowQuote is a quote row from the database
type RowQuote struct {
	ID          string
	AuthorID    string
	Body        string
	Attribution string
	CreatedAt   time.Time
	UpdatedAt   time.Time
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

func scanQuote(row repokit.Row) (RowQuote, error) {
	var r RowQuote
	err := row.Scan(&r.ID, &r.AuthorID, &r.Body, &r.Attribution, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *queries) Insert(ctx context.Context, authorID, body, attribution string) (RowQuote, error) {
	const sql = `
insert into quotes (author_id, body, attribution)
values ($1, $2, $3)
returning id::text, author_id::text, body, attribution, created_at, updated_at
`
	q, err := scanQuote(r.q.QueryRow(ctx, sql, authorID, body, attribution))
	if err != nil {
		return RowQuote{}, perr.FromPostgres(err, "insert quote")
	}
	return q, nil
}

func (r *queries) GetByID(ctx context.Context, id string) (RowQuote, error) {
	const sql = `
select id::text, author_id::text, body, attribution, created_at, updated_at
from quotes
where id = $1
`
	q, err := store.One(ctx, r.q, scanQuote, sql, id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return RowQuote{}, perr.NotFoundf("quote %s not found", id)
		}
		return RowQuote{}, perr.FromPostgres(err, "get quote")
	}
	return q, nil
}

// List pages the wall strictly descending by (created_at, id)
func (r *queries) List(ctx context.Context, after *Cursor, limit int) ([]RowQuote, error) {
	const base = `
select id::text, author_id::text, body, attribution, created_at, updated_at
from quotes
`
	var (
		out []RowQuote
		err error
	)
	if after != nil {
		out, err = store.Many(ctx, r.q, scanQuote, base+`
where (created_at, id) < ($1, $2)
order by created_at desc, id desc
limit $3
`, after.CreatedAt, after.ID, limit)
	} else {
		out, err = store.Many(ctx, r.q, scanQuote, base+`
order by created_at desc, id desc
limit $1
`, limit)
	}
	if err != nil {
		return nil, perr.FromPostgres(err, "list quotes")
	}
	return out, nil
}

func (r *queries) ListByAuthor(ctx context.Context, authorID string, limit int) ([]RowQuote, error) {
	const sql = `
select id::text, author_id::text, body, attribution, created_at, updated_at
from quotes
where author_id = $1
order by created_at desc, id desc
limit $2
`
	out, err := store.Many(ctx, r.q, scanQuote, sql, authorID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list quotes by author")
	}
	return out, nil
}

func (r *queries) Random(ctx context.Context) (RowQuote, error) {
	// fine at wall scale; revisit with tablesample if quotes ever hit millions
	const sql = `
select id::text, author_id::text, body, attribution, created_at, updated_at
from quotes
order by random()
limit 1
`
	q, err := scanQuote(r.q.QueryRow(ctx, sql))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RowQuote{}, perr.NotFoundf("no quotes yet")
		}
		return RowQuote{}, perr.FromPostgres(err, "random quote")
	}
	return q, nil
}

func (r *queries) AuthorOf(ctx context.Context, id string) (string, error) {
	const sql = `select author_id::text from quotes where id = $1`
	author, err := store.Scalar[string](ctx, r.q, sql, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", perr.NotFoundf("quote %s not found", id)
		}
		return "", perr.FromPostgres(err, "quote author")
	}
	return author, nil
}

func (r *queries) Update(ctx context.Context, id, body, attribution string) (RowQuote, error) {
	const sql = `
update quotes
set body = $2, attribution = $3, updated_at = now()
where id = $1
returning id::text, author_id::text, body, attribution, created_at, updated_at
`
	q, err := scanQuote(r.q.QueryRow(ctx, sql, id, body, attribution))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RowQuote{}, perr.NotFoundf("quote %s not found", id)
		}
		return RowQuote{}, perr.FromPostgres(err, "update quote")
	}
	return q, nil
}

func (r *queries) Delete(ctx context.Context, id string) error {
	// edge rows go with the quote via FK cascade
	const sql = `delete from quotes where id = $1`
	tag, err := store.Exec(ctx, r.q, sql, id)
	if err != nil {
		return perr.FromPostgres(err, "delete quote")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("quote %s not found", id)
	}
	return nil
}
