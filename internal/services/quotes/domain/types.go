// Package domain holds quote types and service contracts
package domain

import "time"

// Quote is a single entry on the wall
type Quote struct {
	ID          string
	AuthorID    string
	Body        string
	Attribution string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuotePage is one keyset slice of the public listing
type QuotePage struct {
	Quotes     []Quote
	NextCursor string
}
