package domain

// ItemOut is the wire shape of one feed item
type ItemOut struct {
	ID          string `json:"id"`
	AuthorID    string `json:"author_id"`
	Body        string `json:"body"`
	Attribution string `json:"attribution,omitempty"`
	CreatedAt   string `json:"created_at"`
	LikeCount   int64  `json:"like_count"`
	Liked       *bool  `json:"liked,omitempty"`
	Saved       *bool  `json:"saved,omitempty"`
}

// PageOut is the wire shape of a feed page
type PageOut struct {
	Items      []ItemOut `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
	NextOffset *int      `json:"next_offset,omitempty"`
}
