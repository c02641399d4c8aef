// Package repo provides postgres access for engagement edges
package repo

import (
	"context"

	"quotewall/internal/modkit/repokit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/store"
	"quotewall/internal/services/engagement/domain"
)

// Repo defines the repository contract for engagement edges
type Repo interface {
	AddEdge(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error)
	RemoveEdge(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error)
	LikeCount(ctx context.Context, quoteID string) (int64, error)
	LikeCounts(ctx context.Context, quoteIDs []string) (map[string]int64, error)
	MarksFor(ctx context.Context, userID string, quoteIDs []string) (domain.Marks, error)
	QuoteExists(ctx context.Context, quoteID string) (bool, error)
	RemoveQuoteEdges(ctx context.Context, quoteID string) error
	Apply(ctx context.Context, events []domain.Event) error
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

func edgeTable(kind domain.Kind) string {
	if kind == domain.KindSave {
		return "saved_quotes"
	}
	return "quote_likes"
}

// AddEdge upserts a (user, quote) edge
// the exists guard makes replays for deleted quotes a silent no-op
// instead of an FK failure, which matters when draining old events
func (r *queries) AddEdge(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error) {
	sql := `
insert into ` + edgeTable(kind) + ` (user_id, quote_id)
select $1, $2
where exists (select 1 from quotes where id = $2)
on conflict do nothing
`
	tag, err := store.Exec(ctx, r.q, sql, userID, quoteID)
	if err != nil {
		return false, perr.FromPostgres(err, "add engagement edge")
	}
	return tag.RowsAffected() == 1, nil
}

// RemoveEdge deletes a (user, quote) edge if present
func (r *queries) RemoveEdge(ctx context.Context, kind domain.Kind, userID, quoteID string) (bool, error) {
	sql := `delete from ` + edgeTable(kind) + ` where user_id = $1 and quote_id = $2`
	tag, err := store.Exec(ctx, r.q, sql, userID, quoteID)
	if err != nil {
		return false, perr.FromPostgres(err, "remove engagement edge")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *queries) LikeCount(ctx context.Context, quoteID string) (int64, error) {
	const sql = `select count(*) from quote_likes where quote_id = $1`
	n, err := store.Scalar[int64](ctx, r.q, sql, quoteID)
	if err != nil {
		return 0, perr.FromPostgres(err, "like count")
	}
	return n, nil
}

// LikeCounts returns tallies for the given quotes
// ids with no likes are present with a zero value
func (r *queries) LikeCounts(ctx context.Context, quoteIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(quoteIDs))
	for _, id := range quoteIDs {
		out[id] = 0
	}
	if len(quoteIDs) == 0 {
		return out, nil
	}

	const sql = `
select quote_id::text, count(*)
from quote_likes
where quote_id = any($1)
group by quote_id
`
	rows, err := r.q.Query(ctx, sql, quoteIDs)
	if err != nil {
		return nil, perr.FromPostgres(err, "like counts")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, perr.FromPostgres(err, "scan like count")
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "like counts rows")
	}
	return out, nil
}

// MarksFor reports which of quoteIDs the user has liked and saved
func (r *queries) MarksFor(ctx context.Context, userID string, quoteIDs []string) (domain.Marks, error) {
	marks := domain.Marks{
		Liked: make(map[string]bool, len(quoteIDs)),
		Saved: make(map[string]bool, len(quoteIDs)),
	}
	if len(quoteIDs) == 0 {
		return marks, nil
	}

	const sql = `
select quote_id::text, 'likes'
from quote_likes
where user_id = $1 and quote_id = any($2)
union all
select quote_id::text, 'saves'
from saved_quotes
where user_id = $1 and quote_id = any($2)
`
	rows, err := r.q.Query(ctx, sql, userID, quoteIDs)
	if err != nil {
		return domain.Marks{}, perr.FromPostgres(err, "marks for user")
	}
	defer rows.Close()

	for rows.Next() {
		var id, kind string
		if err := rows.Scan(&id, &kind); err != nil {
			return domain.Marks{}, perr.FromPostgres(err, "scan mark")
		}
		if kind == "saves" {
			marks.Saved[id] = true
		} else {
			marks.Liked[id] = true
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Marks{}, perr.FromPostgres(err, "marks rows")
	}
	return marks, nil
}

func (r *queries) QuoteExists(ctx context.Context, quoteID string) (bool, error) {
	const sql = `select exists (select 1 from quotes where id = $1)`
	ok, err := store.Scalar[bool](ctx, r.q, sql, quoteID)
	if err != nil {
		return false, perr.FromPostgres(err, "quote exists")
	}
	return ok, nil
}

// RemoveQuoteEdges clears both edge tables for a quote
// FK cascade usually beats it to the rows, replayed events cannot
func (r *queries) RemoveQuoteEdges(ctx context.Context, quoteID string) error {
	const sql = `
with likes as (delete from quote_likes where quote_id = $1)
delete from saved_quotes where quote_id = $1
`
	if _, err := store.Exec(ctx, r.q, sql, quoteID); err != nil {
		return perr.FromPostgres(err, "remove quote edges")
	}
	return nil
}

// Apply replays a batch of reconciler events against the edge tables
// callers run it inside a transaction so the batch lands atomically
func (r *queries) Apply(ctx context.Context, events []domain.Event) error {
	for _, ev := range events {
		var err error
		if ev.Action == domain.ActionRemove {
			_, err = r.RemoveEdge(ctx, ev.Kind, ev.UserID, ev.QuoteID)
		} else {
			_, err = r.AddEdge(ctx, ev.Kind, ev.UserID, ev.QuoteID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
