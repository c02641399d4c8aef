// Package domain holds feed types and service contracts
package domain

import "time"

// Sort selects the feed ranking mode
type Sort string

const (
	// SortNewest orders by creation time, cursor paginated
	SortNewest Sort = "newest"

	// SortPopular orders by like count, offset paginated
	SortPopular Sort = "popular"
)

// ParseSort maps a query value to a Sort, empty means newest
func ParseSort(s string) (Sort, bool) {
	switch s {
	case "", string(SortNewest):
		return SortNewest, true
	case string(SortPopular):
		return SortPopular, true
	default:
		return "", false
	}
}

// Item is one quote in a feed page with its engagement annotations
type Item struct {
	ID          string
	AuthorID    string
	Body        string
	Attribution string
	CreatedAt   time.Time
	LikeCount   int64

	// Liked and Saved are only meaningful for authenticated viewers
	Liked bool
	Saved bool
}

// Page is one assembled slice of the feed
// NextCursor is set for newest sort, NextOffset for popular sort,
// both are nil or empty on the last page
type Page struct {
	Items      []Item
	NextCursor string
	NextOffset *int
}

// Query carries validated feed parameters
type Query struct {
	Sort   Sort
	Cursor string
	Offset int
	Limit  int

	// ViewerID is empty for anonymous requests
	ViewerID string
}
