package model

import "time"

// NotificationKind classifies a notification banner.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is transient feedback surfaced to the user after an action
// completes. It is also recorded in the local history store.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// Kind is success or error.
	Kind NotificationKind `json:"kind" db:"kind"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has opened the history view since.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was posted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
