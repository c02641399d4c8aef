package domain

import "context"

// ServicePort defines the service contract for quotes
type ServicePort interface {
	Create(ctx context.Context, userID string, in CreateQuoteInput) (Quote, error)
	Get(ctx context.Context, id string) (Quote, error)
	List(ctx context.Context, cursor string, limit int) (QuotePage, error)
	Mine(ctx context.Context, userID string, limit int) ([]Quote, error)
	Random(ctx context.Context) (Quote, error)
	Update(ctx context.Context, userID, id string, in UpdateQuoteInput) (Quote, error)
	Delete(ctx context.Context, userID, id string) error
}

// CountInvalidator drops cached engagement state when a quote disappears
// the engagement module provides the implementation
type CountInvalidator interface {
	InvalidateQuote(ctx context.Context, quoteID string) error
}
