package domain

// CreateQuoteInput is the payload for posting a new quote
type CreateQuoteInput struct {
	Body        string `json:"body" validate:"required,min=1,max=2000" example:"Simplicity is complicated."`
	Attribution string `json:"attribution,omitempty" validate:"omitempty,max=200" example:"Rob Pike"`
}

// UpdateQuoteInput is the payload for editing an owned quote
type UpdateQuoteInput struct {
	Body        string `json:"body" validate:"required,min=1,max=2000" example:"Clear is better than clever."`
	Attribution string `json:"attribution,omitempty" validate:"omitempty,max=200" example:"Rob Pike"`
}

// QuoteOut is the wire shape for a quote
type QuoteOut struct {
	ID          string `json:"id"`
	AuthorID    string `json:"author_id"`
	Body        string `json:"body"`
	Attribution string `json:"attribution,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// QuotePageOut is the wire shape of the public listing
type QuotePageOut struct {
	Quotes     []QuoteOut `json:"quotes"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
