package models

// RelationKind names one of the four relation sets a user carries.
type RelationKind string

const (
	// RelationConnection is a mutually accepted, symmetric link.
	RelationConnection RelationKind = "connection"

	// RelationConnectionRequest is an incoming request: the member asked to
	// connect with the owner.
	RelationConnectionRequest RelationKind = "connection_request"

	// RelationSentConnectionRequest is an outgoing request: the owner asked
	// to connect with the member. It mirrors the member's incoming request.
	RelationSentConnectionRequest RelationKind = "sent_connection_request"

	// RelationLike means the member likes the owner's profile.
	RelationLike RelationKind = "like"
)

// RelationKinds lists every kind in a stable order.
var RelationKinds = []RelationKind{
	RelationConnection,
	RelationConnectionRequest,
	RelationSentConnectionRequest,
	RelationLike,
}

// UserRelation records that MemberID belongs to one of OwnerID's relation sets.
// The primary key is a composite of (OwnerID, Kind, MemberID) so a member can
// appear in a given set at most once.
type UserRelation struct {
	OwnerID  string       `gorm:"primaryKey;size:36"`
	Kind     RelationKind `gorm:"primaryKey;type:varchar(32)"`
	MemberID string       `gorm:"primaryKey;size:36;index"`
}
