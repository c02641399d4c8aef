package domain

import "context"

// ServicePort defines the service contract for engagement
type ServicePort interface {
	// Mark records an engagement edge; created is false when it already existed
	Mark(ctx context.Context, kind Kind, userID, quoteID string) (created bool, out MarkOut, err error)

	// Unmark removes an engagement edge; absent edges are not an error
	Unmark(ctx context.Context, kind Kind, userID, quoteID string) error

	// LikeCounts returns the like tally for each quote id
	LikeCounts(ctx context.Context, quoteIDs []string) (map[string]int64, error)

	// MarksFor returns the viewer's liked and saved state for the given quotes
	MarksFor(ctx context.Context, userID string, quoteIDs []string) (Marks, error)

	// InvalidateQuote drops cached counters for a deleted quote
	InvalidateQuote(ctx context.Context, quoteID string) error
}

// PublisherPort hands engagement events to the queue
type PublisherPort interface {
	Publish(ctx context.Context, ev Event) error
}

// ReconcilerPort drains the queue into the durable store
type ReconcilerPort interface {
	Run(ctx context.Context) error
}
