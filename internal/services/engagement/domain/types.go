// Package domain holds engagement types and service contracts
package domain

import "time"

// Kind selects which engagement edge an operation touches
type Kind string

const (
	// KindLike is the like edge
	KindLike Kind = "likes"

	// KindSave is the save edge
	KindSave Kind = "saves"
)

// Valid reports whether k names a known edge
func (k Kind) Valid() bool { return k == KindLike || k == KindSave }

// Action is the direction of an engagement change
type Action string

const (
	// ActionAdd marks an edge creation
	ActionAdd Action = "add"

	// ActionRemove marks an edge removal
	ActionRemove Action = "remove"
)

// Event is the engagement change record carried over the queue
// events for the same (user, quote) pair collapse to the latest action
type Event struct {
	Kind    Kind      `json:"kind"`
	Action  Action    `json:"action"`
	UserID  string    `json:"user_id"`
	QuoteID string    `json:"quote_id"`
	At      time.Time `json:"at"`
}

// Key identifies the collapse bucket for an event
func (e Event) Key() string { return e.UserID + ":" + e.QuoteID }
