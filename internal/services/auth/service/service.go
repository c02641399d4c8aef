// Package service resolves session tokens to users
package service

import (
	"context"

	"quotewall/internal/modkit/repokit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/services/auth/domain"
	"quotewall/internal/services/auth/repo"
)

// Service defines the service contract for auth
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New creates a new auth service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("auth.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("auth.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// Resolve maps a bearer token to the user that owns the session
func (s *Svc) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return s.Repo.UserForToken(ctx, token)
}
