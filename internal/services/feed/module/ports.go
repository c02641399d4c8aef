package module

import (
	"context"

	engagementdom "quotewall/internal/services/engagement/domain"
	feeddom "quotewall/internal/services/feed/domain"
	feedsvc "quotewall/internal/services/feed/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptFeedPort adapts the feed service to the domain port interface
type adaptFeedPort struct{ svc feedsvc.Service }

// List implements the domain ServicePort interface
func (a adaptFeedPort) List(ctx context.Context, q feeddom.Query) (feeddom.Page, error) {
	return a.svc.List(ctx, q)
}

// ListMarked implements the domain ServicePort interface
func (a adaptFeedPort) ListMarked(ctx context.Context, kind engagementdom.Kind, viewerID string, limit int) ([]feeddom.Item, error) {
	return a.svc.ListMarked(ctx, kind, viewerID, limit)
}
