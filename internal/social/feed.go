package social

import (
	"context"
	"time"

	"socialportfolio/backend/internal/models"
)

// Feed manages per-user notification logs.
type Feed struct {
	store FeedStore
	now   func() time.Time
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithClock overrides the timestamp source for new entries.
func WithClock(now func() time.Time) FeedOption {
	return func(f *Feed) { f.now = now }
}

func NewFeed(store FeedStore, opts ...FeedOption) *Feed {
	f := &Feed{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Append adds an unread entry to ownerID's log.
func (f *Feed) Append(ctx context.Context, ownerID string, kind models.NotificationKind, sourceID, message string) (Notification, error) {
	return f.store.AppendNotification(ctx, Notification{
		OwnerID:   ownerID,
		Kind:      kind,
		SourceID:  sourceID,
		Message:   message,
		CreatedAt: f.now(),
	})
}

// ListFor returns ownerID's entries, newest first.
func (f *Feed) ListFor(ctx context.Context, ownerID string) ([]Notification, error) {
	entries, err := f.store.Notifications(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// MarkAllRead flags every entry of ownerID as read.
func (f *Feed) MarkAllRead(ctx context.Context, ownerID string) error {
	return f.store.MarkNotificationsRead(ctx, ownerID)
}

// Delete removes one of ownerID's entries. Unknown ids are ignored.
func (f *Feed) Delete(ctx context.Context, ownerID, notificationID string) error {
	return f.store.DeleteNotification(ctx, ownerID, notificationID)
}

// UnreadCount counts ownerID's unread entries.
func (f *Feed) UnreadCount(ctx context.Context, ownerID string) (int, error) {
	entries, err := f.store.Notifications(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range entries {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}
