// Package service assembles annotated feed pages
package service

import (
	"context"

	"quotewall/internal/modkit/repokit"
	"quotewall/internal/platform/cursor"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/platform/logger"
	engagementdom "quotewall/internal/services/engagement/domain"
	"quotewall/internal/services/feed/domain"
	"quotewall/internal/services/feed/repo"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service defines the service contract for the feed
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo       repo.Repo
	binder     repokit.Binder[repo.Repo]
	db         repokit.TxRunner
	engagement engagementdom.ServicePort
}

// New creates a new feed service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], engagement engagementdom.ServicePort) *Svc {
	if db == nil {
		panic("feed.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("feed.Service requires a non nil Repo binder")
	}
	if engagement == nil {
		panic("feed.Service requires the engagement port")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, engagement: engagement}
}

// List returns one page of the feed
func (s *Svc) List(ctx context.Context, q domain.Query) (domain.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		return domain.Page{}, perr.InvalidArgf("limit must be between 1 and %d", maxLimit)
	}

	switch q.Sort {
	case domain.SortPopular:
		return s.popular(ctx, q, limit)
	default:
		return s.newest(ctx, q, limit)
	}
}

func (s *Svc) newest(ctx context.Context, q domain.Query, limit int) (domain.Page, error) {
	var after *repo.Cursor
	if q.Cursor != "" {
		k, err := cursor.Decode(q.Cursor)
		if err != nil {
			return domain.Page{}, perr.InvalidArgf("malformed feed cursor")
		}
		after = &repo.Cursor{CreatedAt: k.CreatedAt, ID: k.ID}
	}

	// one extra row tells us whether another page exists
	rows, err := s.Repo.Newest(ctx, after, limit+1)
	if err != nil {
		return domain.Page{}, err
	}

	page := domain.Page{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = cursor.Encode(cursor.Key{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Items, err = s.annotate(ctx, q.ViewerID, rows)
	return page, err
}

func (s *Svc) popular(ctx context.Context, q domain.Query, limit int) (domain.Page, error) {
	if q.Offset < 0 {
		return domain.Page{}, perr.InvalidArgf("offset must not be negative")
	}
	rows, err := s.Repo.Popular(ctx, q.Offset, limit+1)
	if err != nil {
		return domain.Page{}, err
	}

	page := domain.Page{}
	if len(rows) > limit {
		rows = rows[:limit]
		next := q.Offset + limit
		page.NextOffset = &next
	}
	page.Items, err = s.annotate(ctx, q.ViewerID, rows)
	return page, err
}

// ListMarked returns the viewer's liked or saved quotes, newest mark first
func (s *Svc) ListMarked(ctx context.Context, kind engagementdom.Kind, viewerID string, limit int) ([]domain.Item, error) {
	if !kind.Valid() {
		return nil, perr.InvalidArgf("unknown engagement kind %q", kind)
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		return nil, perr.InvalidArgf("limit must be between 1 and %d", maxLimit)
	}
	rows, err := s.Repo.Marked(ctx, kind, viewerID, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, rows)
}

// annotate applies like tallies and, for signed in viewers, liked and
// saved flags to a page of rows
// cache backed numbers replace the durable tally carried by the rows
func (s *Svc) annotate(ctx context.Context, viewerID string, rows []repo.RowFeedQuote) ([]domain.Item, error) {
	items := make([]domain.Item, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
		items[i] = domain.Item{
			ID:          r.ID,
			AuthorID:    r.AuthorID,
			Body:        r.Body,
			Attribution: r.Attribution,
			CreatedAt:   r.CreatedAt,
			LikeCount:   r.LikeCount,
		}
	}
	if len(rows) == 0 {
		return items, nil
	}

	counts, err := s.engagement.LikeCounts(ctx, ids)
	if err != nil {
		// the rows already carry durable tallies, the page still serves
		logger.C(ctx).Warn().Err(err).Msg("feed like tally annotation failed")
	} else {
		for i := range items {
			if n, ok := counts[items[i].ID]; ok {
				items[i].LikeCount = n
			}
		}
	}

	if viewerID != "" {
		marks, err := s.engagement.MarksFor(ctx, viewerID, ids)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Msg("feed mark annotation failed")
		} else {
			for i := range items {
				items[i].Liked = marks.Liked[items[i].ID]
				items[i].Saved = marks.Saved[items[i].ID]
			}
		}
	}
	return items, nil
}
