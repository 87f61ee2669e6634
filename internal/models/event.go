package models

import "time"

// UserEventType names a change to a user record.
type UserEventType string

const (
	UserCreated UserEventType = "user.created"
	UserUpdated UserEventType = "user.updated"
	UserDeleted UserEventType = "user.deleted"
)

// UserEvent is published after a user record changes.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     string        `json:"user_id"`
	User       *User         `json:"user,omitempty"` // nil for deletions
	OccurredAt time.Time     `json:"occurred_at"`
}
