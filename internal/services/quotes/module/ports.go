package module

import (
	"context"

	quotesdom "quotewall/internal/services/quotes/domain"
	quotessvc "quotewall/internal/services/quotes/service"
)

// CountInvalidator re-exports the domain port for callers wiring the module
type CountInvalidator = quotesdom.CountInvalidator

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptQuotesPort adapts the quotes service to the domain port interface
type adaptQuotesPort struct{ svc quotessvc.Service }

// Get implements the domain ServicePort interface
func (a adaptQuotesPort) Get(ctx context.Context, id string) (quotesdom.Quote, error) {
	return a.svc.Get(ctx, id)
}

// Create implements the domain ServicePort interface
func (a adaptQuotesPort) Create(ctx context.Context, userID string, in quotesdom.CreateQuoteInput) (quotesdom.Quote, error) {
	return a.svc.Create(ctx, userID, in)
}

// List implements the domain ServicePort interface
func (a adaptQuotesPort) List(ctx context.Context, cursor string, limit int) (quotesdom.QuotePage, error) {
	return a.svc.List(ctx, cursor, limit)
}

// Mine implements the domain ServicePort interface
func (a adaptQuotesPort) Mine(ctx context.Context, userID string, limit int) ([]quotesdom.Quote, error) {
	return a.svc.Mine(ctx, userID, limit)
}

// Random implements the domain ServicePort interface
func (a adaptQuotesPort) Random(ctx context.Context) (quotesdom.Quote, error) {
	return a.svc.Random(ctx)
}

// Update implements the domain ServicePort interface
func (a adaptQuotesPort) Update(ctx context.Context, userID, id string, in quotesdom.UpdateQuoteInput) (quotesdom.Quote, error) {
	return a.svc.Update(ctx, userID, id, in)
}

// Delete implements the domain ServicePort interface
func (a adaptQuotesPort) Delete(ctx context.Context, userID, id string) error {
	return a.svc.Delete(ctx, userID, id)
}
