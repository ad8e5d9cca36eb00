package social

import (
	"context"
	"time"

	"socialportfolio/backend/internal/models"
)

// Store persists relation sets. Implementations must apply each Update call
// atomically: either every change fn made is written or none is.
type Store interface {
	// UpdatePair loads the relation sets of firstID and secondID, passes them
	// to fn in that order and persists both. It returns ErrNotFound if either
	// user is missing. An error from fn aborts the update and is returned as is.
	UpdatePair(ctx context.Context, firstID, secondID string, fn func(first, second *Relations) error) error

	// UpdateOne is UpdatePair for a single user.
	UpdateOne(ctx context.Context, userID string, fn func(r *Relations) error) error

	// PullMember removes memberID from every user's relation sets.
	PullMember(ctx context.Context, memberID string) error

	// DeleteUser removes the user record with its own relation sets and
	// notification log. It returns ErrNotFound if the user is missing.
	DeleteUser(ctx context.Context, userID string) error
}

// Notification is one entry of a user's feed.
type Notification struct {
	ID        string
	OwnerID   string
	Kind      models.NotificationKind
	SourceID  string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// FeedStore persists notification logs. Notifications returns entries in
// insertion order.
type FeedStore interface {
	AppendNotification(ctx context.Context, n Notification) (Notification, error)
	Notifications(ctx context.Context, ownerID string) ([]Notification, error)
	MarkNotificationsRead(ctx context.Context, ownerID string) error
	DeleteNotification(ctx context.Context, ownerID, notificationID string) error
}
