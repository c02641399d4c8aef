// Package http provides http transport for quotes
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"quotewall/internal/modkit/httpkit"
	perr "quotewall/internal/platform/errors"
	"quotewall/internal/services/quotes/domain"
	svc "quotewall/internal/services/quotes/service"
)

// Register mounts quote endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/random", h.random)
	httpkit.Get(r, "/{quoteId}", h.get)
}

// RegisterProtected mounts endpoints that require an authenticated user
func RegisterProtected(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateQuoteInput](r, "/", h.create)
	httpkit.Get(r, "/mine", h.mine)
	httpkit.PutJSON[domain.UpdateQuoteInput](r, "/{quoteId}", h.update)
	httpkit.Delete(r, "/{quoteId}", h.remove)
}

type handlers struct{ svc svc.Service }

// @Summary Post a new quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param payload body domain.CreateQuoteInput true "Quote"
// @Success 201 {object} domain.QuoteOut "created"
// @Router /quotes [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateQuoteInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	q, err := h.svc.Create(r.Context(), uid, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(toOut(q)), nil
}

// @Summary List quotes newest first
// @Tags Quotes
// @Produce json
// @Param cursor query string false "opaque page token"
// @Param limit query int false "page size, 1 to 100" default(20)
// @Success 200 {object} domain.QuotePageOut "ok"
// @Router /quotes [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit, err := limitParam(r)
	if err != nil {
		return nil, err
	}
	page, err := h.svc.List(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		return nil, err
	}
	out := domain.QuotePageOut{
		Quotes:     make([]domain.QuoteOut, len(page.Quotes)),
		NextCursor: page.NextCursor,
	}
	for i, q := range page.Quotes {
		out.Quotes[i] = toOut(q)
	}
	return out, nil
}

// @Summary List the caller's quotes
// @Tags Quotes
// @Produce json
// @Param limit query int false "page size, 1 to 100" default(20)
// @Success 200 {array} domain.QuoteOut "ok"
// @Router /quotes/mine [get]
func (h *handlers) mine(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	limit, err := limitParam(r)
	if err != nil {
		return nil, err
	}
	quotes, err := h.svc.Mine(r.Context(), uid, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.QuoteOut, len(quotes))
	for i, q := range quotes {
		out[i] = toOut(q)
	}
	return out, nil
}

// @Summary Fetch a random quote
// @Tags Quotes
// @Produce json
// @Success 200 {object} domain.QuoteOut "ok"
// @Router /quotes/random [get]
func (h *handlers) random(r *stdhttp.Request) (any, error) {
	q, err := h.svc.Random(r.Context())
	if err != nil {
		return nil, err
	}
	return toOut(q), nil
}

// @Summary Fetch a quote by id
// @Tags Quotes
// @Produce json
// @Param quoteId path string true "Quote id"
// @Success 200 {object} domain.QuoteOut "ok"
// @Router /quotes/{quoteId} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	q, err := h.svc.Get(r.Context(), httpkit.Param(r, "quoteId"))
	if err != nil {
		return nil, err
	}
	return toOut(q), nil
}

// @Summary Edit an owned quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quoteId path string true "Quote id"
// @Param payload body domain.UpdateQuoteInput true "Quote"
// @Success 200 {object} domain.QuoteOut "updated"
// @Router /quotes/{quoteId} [put]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateQuoteInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	q, err := h.svc.Update(r.Context(), uid, httpkit.Param(r, "quoteId"), in)
	if err != nil {
		return nil, err
	}
	return toOut(q), nil
}

// @Summary Delete an owned quote
// @Tags Quotes
// @Param quoteId path string true "Quote id"
// @Success 204 "deleted"
// @Router /quotes/{quoteId} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), uid, httpkit.Param(r, "quoteId")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func limitParam(r *stdhttp.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, perr.InvalidArgf("limit must be a positive integer")
	}
	return n, nil
}

func toOut(q domain.Quote) domain.QuoteOut {
	return domain.QuoteOut{
		ID:          q.ID,
		AuthorID:    q.AuthorID,
		Body:        q.Body,
		Attribution: q.Attribution,
		CreatedAt:   q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
