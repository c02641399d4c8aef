// Package http provides http transport for engagement
package http

import (
	stdhttp "net/http"

	"quotewall/internal/modkit/httpkit"
	"quotewall/internal/services/engagement/domain"
	svc "quotewall/internal/services/engagement/service"
)

// RegisterProtected mounts like and save endpoints on the given router
// callers mount these under the feed prefix, every route needs a user
func RegisterProtected(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/likes/{quoteId}", h.mark(domain.KindLike))
	httpkit.Delete(r, "/likes/{quoteId}", h.unmark(domain.KindLike))
	httpkit.Post(r, "/saved/{quoteId}", h.mark(domain.KindSave))
	httpkit.Delete(r, "/saved/{quoteId}", h.unmark(domain.KindSave))
}

type handlers struct{ svc svc.Service }

// @Summary Like or save a quote
// @Tags Feed
// @Produce json
// @Param quoteId path string true "Quote id"
// @Success 201 {object} domain.MarkOut "newly marked"
// @Success 200 {object} domain.MarkOut "already marked"
// @Router /feed/likes/{quoteId} [post]
func (h *handlers) mark(kind domain.Kind) func(*stdhttp.Request) (any, error) {
	return func(r *stdhttp.Request) (any, error) {
		uid, err := httpkit.User(r)
		if err != nil {
			return nil, err
		}
		created, out, err := h.svc.Mark(r.Context(), kind, uid, httpkit.Param(r, "quoteId"))
		if err != nil {
			return nil, err
		}
		if created {
			return httpkit.Created(out), nil
		}
		return out, nil
	}
}

// @Summary Unlike or unsave a quote
// @Tags Feed
// @Param quoteId path string true "Quote id"
// @Success 204 "removed or never marked"
// @Router /feed/likes/{quoteId} [delete]
func (h *handlers) unmark(kind domain.Kind) func(*stdhttp.Request) (any, error) {
	return func(r *stdhttp.Request) (any, error) {
		uid, err := httpkit.User(r)
		if err != nil {
			return nil, err
		}
		if err := h.svc.Unmark(r.Context(), kind, uid, httpkit.Param(r, "quoteId")); err != nil {
			return nil, err
		}
		return httpkit.NoContent(), nil
	}
}
