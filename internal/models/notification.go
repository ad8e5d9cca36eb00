package models

import "time"

// NotificationKind is the event that produced a notification.
type NotificationKind string

const (
	NotificationLike               NotificationKind = "like"
	NotificationConnectionRequest  NotificationKind = "connection_request"
	NotificationConnectionAccepted NotificationKind = "connection_accepted"
)

// Notification is one entry in a user's feed. Entries are ordered by ID, which
// grows with insertion. SourceID is not a foreign key: the entry outlives the
// user who caused it.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	OwnerID   string           `gorm:"size:36;not null;index"`
	Kind      NotificationKind `gorm:"type:varchar(32);not null"`
	SourceID  string           `gorm:"size:36"`
	Message   string
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
