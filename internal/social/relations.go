package social

import "socialportfolio/backend/internal/models"

// Relations is the in-memory view of one user's four relation sets.
type Relations struct {
	UserID                 string
	Connections            IDSet
	ConnectionRequests     IDSet
	SentConnectionRequests IDSet
	Likes                  IDSet
}

// NewRelations returns empty relation sets for userID.
func NewRelations(userID string) *Relations {
	return &Relations{
		UserID:                 userID,
		Connections:            NewIDSet(),
		ConnectionRequests:     NewIDSet(),
		SentConnectionRequests: NewIDSet(),
		Likes:                  NewIDSet(),
	}
}

// Set returns the set stored under kind. Unknown kinds yield nil.
func (r *Relations) Set(kind models.RelationKind) IDSet {
	switch kind {
	case models.RelationConnection:
		return r.Connections
	case models.RelationConnectionRequest:
		return r.ConnectionRequests
	case models.RelationSentConnectionRequest:
		return r.SentConnectionRequests
	case models.RelationLike:
		return r.Likes
	}
	return nil
}

// Clone returns a deep copy.
func (r *Relations) Clone() *Relations {
	return &Relations{
		UserID:                 r.UserID,
		Connections:            r.Connections.Clone(),
		ConnectionRequests:     r.ConnectionRequests.Clone(),
		SentConnectionRequests: r.SentConnectionRequests.Clone(),
		Likes:                  r.Likes.Clone(),
	}
}

// RelationChange is the delta of one set between two snapshots.
type RelationChange struct {
	Kind    models.RelationKind
	Added   []string
	Removed []string
}

// Changes lists, per kind, what r gained and lost relative to before.
// Kinds without changes are omitted.
func (r *Relations) Changes(before *Relations) []RelationChange {
	var changes []RelationChange
	for _, kind := range models.RelationKinds {
		added, removed := r.Set(kind).Diff(before.Set(kind))
		if len(added) == 0 && len(removed) == 0 {
			continue
		}
		changes = append(changes, RelationChange{Kind: kind, Added: added, Removed: removed})
	}
	return changes
}
