// Package mongostore keeps each user as one document with the relation sets
// and the notification log embedded as arrays.
//
// Pair updates run inside a multi-document transaction, so the deployment must
// be a replica set or sharded cluster.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/models"
	"socialportfolio/backend/internal/social"
)

const usersCollection = "users"

var relationFields = map[models.RelationKind]string{
	models.RelationConnection:            "connections",
	models.RelationConnectionRequest:     "connectionRequests",
	models.RelationSentConnectionRequest: "sentConnectionRequests",
	models.RelationLike:                  "likes",
}

type userDocument struct {
	ID                     string                 `bson:"_id"`
	Username               string                 `bson:"username"`
	Password               string                 `bson:"password"`
	Connections            []string               `bson:"connections"`
	ConnectionRequests     []string               `bson:"connectionRequests"`
	SentConnectionRequests []string               `bson:"sentConnectionRequests"`
	Likes                  []string               `bson:"likes"`
	Notifications          []notificationDocument `bson:"notifications"`
	CreatedAt              time.Time              `bson:"createdAt"`
}

type notificationDocument struct {
	ID        string    `bson:"_id"`
	Type      string    `bson:"type"`
	From      string    `bson:"from"`
	Message   string    `bson:"message"`
	IsRead    bool      `bson:"isRead"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Store implements social.Store, social.FeedStore and account.Store.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	newID  func() string
}

// Connect dials uri and returns a Store over database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	log.Println("MongoDB connected")
	return newStore(client, client.Database(dbName).Collection(usersCollection)), nil
}

func newStore(client *mongo.Client, users *mongo.Collection) *Store {
	return &Store{client: client, users: users, newID: uuid.NewString}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique username index and multikey indexes on the
// relation arrays used by PullMember.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	for _, kind := range models.RelationKinds {
		indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: relationFields[kind], Value: 1}}})
	}
	if _, err := s.users.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	return nil
}

// region --- Accounts ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:                     user.ID,
		Username:               user.Username,
		Password:               user.PasswordHash,
		Connections:            []string{},
		ConnectionRequests:     []string{},
		SentConnectionRequests: []string{},
		Likes:                  []string{},
		Notifications:          []notificationDocument{},
		CreatedAt:              user.CreatedAt,
	}
	_, err := s.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return account.ErrUsernameTaken
	}
	return err
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	opts := options.FindOne().SetProjection(bson.M{"username": 1, "password": 1, "createdAt": 1})
	var doc userDocument
	if err := s.users.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return &models.User{ID: doc.ID, Username: doc.Username, PasswordHash: doc.Password, CreatedAt: doc.CreatedAt}, nil
}

// SearchUsers matches search literally as a case-insensitive substring.
func (s *Store) SearchUsers(ctx context.Context, search string) ([]models.User, error) {
	filter := bson.M{}
	if search != "" {
		filter["username"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	opts := options.Find().
		SetProjection(bson.M{"username": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, len(docs))
	for i, doc := range docs {
		users[i] = models.User{ID: doc.ID, Username: doc.Username}
	}
	return users, nil
}

func (s *Store) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"username": 1}))
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		names[doc.ID] = doc.Username
	}
	return names, nil
}

func (s *Store) LoadRelations(ctx context.Context, userID string) (*social.Relations, error) {
	return s.loadRelations(ctx, userID)
}

// endregion

// region --- Relations ---

func (s *Store) UpdatePair(ctx context.Context, firstID, secondID string, fn func(first, second *social.Relations) error) error {
	return s.inTransaction(ctx, func(sc context.Context) error {
		return s.applyPair(sc, firstID, secondID, fn)
	})
}

func (s *Store) UpdateOne(ctx context.Context, userID string, fn func(r *social.Relations) error) error {
	return s.inTransaction(ctx, func(sc context.Context) error {
		return s.applyOne(sc, userID, fn)
	})
}

func (s *Store) applyOne(ctx context.Context, userID string, fn func(r *social.Relations) error) error {
	r, err := s.loadRelations(ctx, userID)
	if err != nil {
		return err
	}
	before := r.Clone()
	if err := fn(r); err != nil {
		return err
	}
	return s.saveRelations(ctx, r, before)
}

// applyPair is the body of UpdatePair; it runs inside the session context.
func (s *Store) applyPair(ctx context.Context, firstID, secondID string, fn func(first, second *social.Relations) error) error {
	first, err := s.loadRelations(ctx, firstID)
	if err != nil {
		return err
	}
	second, err := s.loadRelations(ctx, secondID)
	if err != nil {
		return err
	}

	firstBefore, secondBefore := first.Clone(), second.Clone()
	if err := fn(first, second); err != nil {
		return err
	}
	if err := s.saveRelations(ctx, first, firstBefore); err != nil {
		return err
	}
	return s.saveRelations(ctx, second, secondBefore)
}

// PullMember removes memberID from every relation array of every user in a
// single multi-document update.
func (s *Store) PullMember(ctx context.Context, memberID string) error {
	filter, update := pullMemberUpdate(memberID)
	_, err := s.users.UpdateMany(ctx, filter, update)
	return err
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return social.ErrNotFound
	}
	return nil
}

// endregion

// region --- Notifications ---

func (s *Store) AppendNotification(ctx context.Context, n social.Notification) (social.Notification, error) {
	n.ID = s.newID()
	doc := notificationDocument{
		ID:        n.ID,
		Type:      string(n.Kind),
		From:      n.SourceID,
		Message:   n.Message,
		IsRead:    n.Read,
		CreatedAt: n.CreatedAt,
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": n.OwnerID}, bson.M{"$push": bson.M{"notifications": doc}})
	if err != nil {
		return social.Notification{}, err
	}
	if res.MatchedCount == 0 {
		return social.Notification{}, social.ErrNotFound
	}
	return n, nil
}

func (s *Store) Notifications(ctx context.Context, ownerID string) ([]social.Notification, error) {
	opts := options.FindOne().SetProjection(bson.M{"notifications": 1})
	var doc userDocument
	if err := s.users.FindOne(ctx, bson.M{"_id": ownerID}, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	entries := make([]social.Notification, len(doc.Notifications))
	for i, nd := range doc.Notifications {
		entries[i] = social.Notification{
			ID:        nd.ID,
			OwnerID:   ownerID,
			Kind:      models.NotificationKind(nd.Type),
			SourceID:  nd.From,
			Message:   nd.Message,
			Read:      nd.IsRead,
			CreatedAt: nd.CreatedAt,
		}
	}
	return entries, nil
}

func (s *Store) MarkNotificationsRead(ctx context.Context, ownerID string) error {
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": ownerID}, bson.M{"$set": bson.M{"notifications.$[].isRead": true}})
	return err
}

func (s *Store) DeleteNotification(ctx context.Context, ownerID, notificationID string) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$pull": bson.M{"notifications": bson.M{"_id": notificationID}}},
	)
	return err
}

// endregion

// region --- Helpers ---

func (s *Store) inTransaction(ctx context.Context, fn func(sc context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) loadRelations(ctx context.Context, userID string) (*social.Relations, error) {
	projection := bson.M{}
	for _, field := range relationFields {
		projection[field] = 1
	}
	var doc userDocument
	err := s.users.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(projection)).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return &social.Relations{
		UserID:                 userID,
		Connections:            social.NewIDSet(doc.Connections...),
		ConnectionRequests:     social.NewIDSet(doc.ConnectionRequests...),
		SentConnectionRequests: social.NewIDSet(doc.SentConnectionRequests...),
		Likes:                  social.NewIDSet(doc.Likes...),
	}, nil
}

// saveRelations rewrites only the arrays that changed.
func (s *Store) saveRelations(ctx context.Context, after, before *social.Relations) error {
	set := bson.M{}
	for _, change := range after.Changes(before) {
		set[relationFields[change.Kind]] = after.Set(change.Kind).Slice()
	}
	if len(set) == 0 {
		return nil
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": after.UserID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return social.ErrNotFound
	}
	return nil
}

func pullMemberUpdate(memberID string) (filter, update bson.M) {
	or := bson.A{}
	pull := bson.M{}
	for _, kind := range models.RelationKinds {
		field := relationFields[kind]
		or = append(or, bson.M{field: memberID})
		pull[field] = memberID
	}
	return bson.M{"$or": or}, bson.M{"$pull": pull}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return social.ErrNotFound
	}
	return err
}

// endregion
