// Package repo provides postgres access for session resolution
package repo

import (
	"context"
	"errors"

	"quotewall/internal/modkit/repokit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// Repo defines the repository contract for sessions
type Repo interface {
	UserForToken(ctx context.Context, token string) (string, error)
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

// UserForToken resolves a live session token to its user id
// expired sessions resolve the same as unknown tokens
func (r *queries) UserForToken(ctx context.Context, token string) (string, error) {
	const sql = `
select user_id::text
from sessions
where token = $1 and expires_at > now()
`
	uid, err := store.Scalar[string](ctx, r.q, sql, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", perr.Unauthorizedf("unknown or expired session")
		}
		return "", perr.FromPostgres(err, "resolve session")
	}
	return uid, nil
}
