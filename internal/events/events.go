// Package events carries notifications about rows created through the data
// access layer.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActionCreated is the only action the data access layer produces.
const ActionCreated = "created"

// Change describes one row created during a data access scope.
type Change struct {
	EventID    string    `json:"event_id"`
	Entity     string    `json:"entity"`
	EntityID   int64     `json:"entity_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChange stamps a created-row notification with a fresh event id.
func NewChange(entity string, id int64, at time.Time) Change {
	return Change{
		EventID:    uuid.NewString(),
		Entity:     entity,
		EntityID:   id,
		Action:     ActionCreated,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers a batch of changes.
type Publisher interface {
	Publish(ctx context.Context, changes []Change) error
}

// Discard drops every change.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, []Change) error { return nil }
