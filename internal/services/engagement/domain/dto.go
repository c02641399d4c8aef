package domain

// MarkOut is the response body for like and save operations
type MarkOut struct {
	QuoteID string `json:"quote_id"`
	Marked  bool   `json:"marked"`
	// Count is the current like tally, present for like operations only
	Count *int64 `json:"count,omitempty"`
}

// Marks carries the viewer's engagement state for a set of quotes
type Marks struct {
	Liked map[string]bool
	Saved map[string]bool
}
