package domain

import (
	"context"

	engagement "quotewall/internal/services/engagement/domain"
)

// ServicePort defines the service contract for feed assembly
type ServicePort interface {
	// List returns one page of the feed with engagement annotations
	List(ctx context.Context, q Query) (Page, error)

	// ListMarked returns the viewer's liked or saved quotes, newest mark first
	ListMarked(ctx context.Context, kind engagement.Kind, viewerID string, limit int) ([]Item, error)
}
