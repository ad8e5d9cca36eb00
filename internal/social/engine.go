// Package social implements the connection, like and notification rules
// between users.
//
// All relation changes go through Engine, which mutates both sides of a
// relation inside a single Store update so mirrored sets never diverge.
package social

import (
	"context"
	"io"
	"log"

	"socialportfolio/backend/internal/models"
)

// Notification messages.
const (
	MessageConnectionRequest  = "sent you a connection request"
	MessageConnectionAccepted = "accepted your connection request"
	MessageLike               = "liked your profile"
)

// Notifier receives the notifications produced by relation changes.
type Notifier interface {
	Append(ctx context.Context, ownerID string, kind models.NotificationKind, sourceID, message string) (Notification, error)
}

// Engine applies relation state transitions.
type Engine struct {
	store    Store
	notifier Notifier
	logger   *log.Logger
}

// NewEngine creates an Engine. notifier may be nil, in which case no
// notifications are emitted. A nil logger discards output.
func NewEngine(store Store, notifier Notifier, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{store: store, notifier: notifier, logger: logger}
}

// RequestConnection records a pending request from currentID to targetID and
// notifies the target.
func (e *Engine) RequestConnection(ctx context.Context, currentID, targetID string) error {
	if currentID == targetID {
		return ErrSelfReference.WithMessage("You cannot connect with yourself")
	}

	err := e.store.UpdatePair(ctx, currentID, targetID, func(current, target *Relations) error {
		if target.Connections.Has(currentID) {
			return ErrAlreadyConnected
		}
		if target.ConnectionRequests.Has(currentID) {
			return ErrDuplicateRequest
		}
		target.ConnectionRequests.Add(currentID)
		current.SentConnectionRequests.Add(targetID)
		return nil
	})
	if err != nil {
		return err
	}

	e.notify(ctx, targetID, models.NotificationConnectionRequest, currentID, MessageConnectionRequest)
	return nil
}

// AcceptConnection turns requesterID's pending request to currentID into a
// connection and notifies the requester.
func (e *Engine) AcceptConnection(ctx context.Context, currentID, requesterID string) error {
	if currentID == requesterID {
		return ErrSelfReference.WithMessage("You cannot connect with yourself")
	}

	err := e.store.UpdatePair(ctx, currentID, requesterID, func(current, requester *Relations) error {
		if !current.ConnectionRequests.Has(requesterID) {
			return ErrNoSuchRequest
		}
		current.ConnectionRequests.Remove(requesterID)
		requester.SentConnectionRequests.Remove(currentID)
		// A crossed request in the other direction is settled too.
		requester.ConnectionRequests.Remove(currentID)
		current.SentConnectionRequests.Remove(requesterID)

		current.Connections.Add(requesterID)
		requester.Connections.Add(currentID)
		return nil
	})
	if err != nil {
		return err
	}

	e.notify(ctx, requesterID, models.NotificationConnectionAccepted, currentID, MessageConnectionAccepted)
	return nil
}

// RejectConnection drops requesterID's pending request to currentID. It is
// a no-op when there is no such request.
func (e *Engine) RejectConnection(ctx context.Context, currentID, requesterID string) error {
	if currentID == requesterID {
		return ErrSelfReference
	}
	return e.store.UpdatePair(ctx, currentID, requesterID, func(current, requester *Relations) error {
		current.ConnectionRequests.Remove(requesterID)
		requester.SentConnectionRequests.Remove(currentID)
		return nil
	})
}

// CancelRequest withdraws currentID's pending request to targetID.
func (e *Engine) CancelRequest(ctx context.Context, currentID, targetID string) error {
	if currentID == targetID {
		return ErrSelfReference
	}
	return e.store.UpdatePair(ctx, currentID, targetID, func(current, target *Relations) error {
		target.ConnectionRequests.Remove(currentID)
		current.SentConnectionRequests.Remove(targetID)
		return nil
	})
}

// Disconnect removes the connection between currentID and targetID on both
// sides.
func (e *Engine) Disconnect(ctx context.Context, currentID, targetID string) error {
	if currentID == targetID {
		return ErrSelfReference
	}
	return e.store.UpdatePair(ctx, currentID, targetID, func(current, target *Relations) error {
		target.Connections.Remove(currentID)
		current.Connections.Remove(targetID)
		return nil
	})
}

// LikeProfile adds currentID to targetID's likes and notifies the target.
// Both users must exist, so an account deleted while its token is still
// valid cannot leave a dangling like.
func (e *Engine) LikeProfile(ctx context.Context, currentID, targetID string) error {
	if currentID == targetID {
		return ErrSelfReference.WithMessage("You cannot like your own profile")
	}

	err := e.store.UpdatePair(ctx, currentID, targetID, func(_, target *Relations) error {
		if !target.Likes.Add(currentID) {
			return ErrAlreadyLiked
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.notify(ctx, targetID, models.NotificationLike, currentID, MessageLike)
	return nil
}

// UnlikeProfile removes currentID from targetID's likes if present.
func (e *Engine) UnlikeProfile(ctx context.Context, currentID, targetID string) error {
	if currentID == targetID {
		return ErrSelfReference.WithMessage("You cannot unlike your own profile")
	}
	return e.store.UpdateOne(ctx, targetID, func(target *Relations) error {
		target.Likes.Remove(currentID)
		return nil
	})
}

// PurgeUser removes userID from every other user's relation sets and then
// deletes the user. The pull runs first so that a failed delete still leaves
// every other user consistent.
func (e *Engine) PurgeUser(ctx context.Context, userID string) error {
	if err := e.store.PullMember(ctx, userID); err != nil {
		return err
	}
	return e.store.DeleteUser(ctx, userID)
}

func (e *Engine) notify(ctx context.Context, ownerID string, kind models.NotificationKind, sourceID, message string) {
	if e.notifier == nil {
		return
	}
	if _, err := e.notifier.Append(ctx, ownerID, kind, sourceID, message); err != nil {
		e.logger.Printf("social: dropped %s notification for %s: %v", kind, ownerID, err)
	}
}
