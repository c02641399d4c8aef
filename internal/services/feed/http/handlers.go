// Package http provides http transport for the feed
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"quotewall/internal/modkit/httpkit"
	perr "quotewall/internal/platform/errors"
	engagement "quotewall/internal/services/engagement/domain"
	"quotewall/internal/services/feed/domain"
	svc "quotewall/internal/services/feed/service"
)

// Register mounts the feed listing on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
}

// RegisterProtected mounts the viewer's liked and saved listings
func RegisterProtected(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/likes", h.marked(engagement.KindLike))
	httpkit.Get(r, "/saved", h.marked(engagement.KindSave))
}

type handlers struct{ svc svc.Service }

// @Summary List the quote feed
// @Tags Feed
// @Produce json
// @Param sort query string false "newest or popular" default(newest)
// @Param cursor query string false "opaque page token for newest sort"
// @Param offset query int false "page offset for popular sort"
// @Param limit query int false "page size, 1 to 100" default(20)
// @Success 200 {object} domain.PageOut "ok"
// @Router /feed [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q, err := parseQuery(r)
	if err != nil {
		return nil, err
	}
	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return toOut(page, q.ViewerID != ""), nil
}

// @Summary List quotes the caller liked or saved
// @Tags Feed
// @Produce json
// @Param limit query int false "page size, 1 to 100" default(20)
// @Success 200 {array} domain.ItemOut "ok"
// @Router /feed/likes [get]
func (h *handlers) marked(kind engagement.Kind) func(*stdhttp.Request) (any, error) {
	return func(r *stdhttp.Request) (any, error) {
		uid, err := httpkit.User(r)
		if err != nil {
			return nil, err
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return nil, perr.InvalidArgf("limit must be a positive integer")
			}
			limit = n
		}
		items, err := h.svc.ListMarked(r.Context(), kind, uid, limit)
		if err != nil {
			return nil, err
		}
		out := make([]domain.ItemOut, len(items))
		for i, it := range items {
			out[i] = itemOut(it, true)
		}
		return out, nil
	}
}

func parseQuery(r *stdhttp.Request) (domain.Query, error) {
	vals := r.URL.Query()

	sort, ok := domain.ParseSort(vals.Get("sort"))
	if !ok {
		return domain.Query{}, perr.InvalidArgf("unknown sort %q", vals.Get("sort"))
	}

	q := domain.Query{Sort: sort, Cursor: vals.Get("cursor")}

	if raw := vals.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return domain.Query{}, perr.InvalidArgf("offset must be a non negative integer")
		}
		q.Offset = n
	}
	if raw := vals.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return domain.Query{}, perr.InvalidArgf("limit must be a positive integer")
		}
		q.Limit = n
	}

	// anonymous viewers just skip the liked and saved annotations
	if uid, err := httpkit.User(r); err == nil {
		q.ViewerID = uid
	}
	return q, nil
}

func toOut(p domain.Page, authed bool) domain.PageOut {
	out := domain.PageOut{
		Items:      make([]domain.ItemOut, len(p.Items)),
		NextCursor: p.NextCursor,
		NextOffset: p.NextOffset,
	}
	for i, it := range p.Items {
		out.Items[i] = itemOut(it, authed)
	}
	return out
}

func itemOut(it domain.Item, authed bool) domain.ItemOut {
	o := domain.ItemOut{
		ID:          it.ID,
		AuthorID:    it.AuthorID,
		Body:        it.Body,
		Attribution: it.Attribution,
		CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339Nano),
		LikeCount:   it.LikeCount,
	}
	if authed {
		liked, saved := it.Liked, it.Saved
		o.Liked = &liked
		o.Saved = &saved
	}
	return o
}
