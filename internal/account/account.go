// Package account handles signup, login and the profile views built on top
// of the relation sets.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"socialportfolio/backend/internal/apperror"
	"socialportfolio/backend/internal/models"
	"socialportfolio/backend/internal/social"
	"socialportfolio/backend/pkg/password"
)

var (
	ErrUsernameTaken      = apperror.New(apperror.KindDuplicate, "username_taken", "Username already exists")
	ErrInvalidCredentials = apperror.New(apperror.KindAuth, "invalid_credentials", "Invalid credentials")
	ErrMissingFields      = apperror.New(apperror.KindValidation, "missing_fields", "Username and password are required")
)

// Store is the persistence the account service needs. Lookups of unknown
// users return social.ErrNotFound.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	SearchUsers(ctx context.Context, search string) ([]models.User, error)
	LoadRelations(ctx context.Context, userID string) (*social.Relations, error)
	Usernames(ctx context.Context, ids []string) (map[string]string, error)
}

// Hasher is the one-way password hash.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// UserRef is a resolved relation member.
type UserRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Me is the private view of the caller's own account.
type Me struct {
	ID                     string    `json:"_id"`
	Username               string    `json:"username"`
	Connections            []UserRef `json:"connections"`
	ConnectionRequests     []UserRef `json:"connectionRequests"`
	SentConnectionRequests []UserRef `json:"sentConnectionRequests"`
	Likes                  []UserRef `json:"likes"`
	CreatedAt              time.Time `json:"createdAt"`
}

// Relationship statuses, seen from the viewer.
const (
	StatusNone            = "none"
	StatusConnected       = "connected"
	StatusRequestSent     = "request_sent"
	StatusRequestReceived = "request_received"
)

// Relationship describes how a viewer relates to a profile.
type Relationship struct {
	Status string `json:"status"`
	Liked  bool   `json:"liked"`
}

// Profile is the public view of an account.
type Profile struct {
	ID          string    `json:"_id"`
	Username    string    `json:"username"`
	Connections []UserRef `json:"connections"`
	Likes       []UserRef `json:"likes"`
	LikesCount  int       `json:"likesCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Service struct {
	store  Store
	hasher Hasher
	tokens TokenIssuer
	newID  func() string
}

func NewService(store Store, hasher Hasher, tokens TokenIssuer) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens, newID: uuid.NewString}
}

// NormalizeUsername trims surrounding space and applies Unicode NFC so that
// visually identical names compare equal.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

// Signup creates an account.
func (s *Service) Signup(ctx context.Context, username, plain string) (*models.User, error) {
	username = NormalizeUsername(username)
	if username == "" || plain == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.store.FindUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, social.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, plain string) (string, error) {
	username = NormalizeUsername(username)
	if username == "" || plain == "" {
		return "", ErrMissingFields
	}

	user, err := s.store.FindUserByUsername(ctx, username)
	if errors.Is(err, social.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := s.hasher.Verify(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", ErrInvalidCredentials.WithMessage("Wrong Password!")
		}
		return "", err
	}

	return s.tokens.GenerateToken(user.ID)
}

// Me returns the caller's account with every relation set resolved.
func (s *Service) Me(ctx context.Context, userID string) (*Me, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	rel, err := s.store.LoadRelations(ctx, userID)
	if err != nil {
		return nil, err
	}

	names, err := s.store.Usernames(ctx, memberIDs(rel.Connections, rel.ConnectionRequests, rel.SentConnectionRequests, rel.Likes))
	if err != nil {
		return nil, err
	}

	return &Me{
		ID:                     user.ID,
		Username:               user.Username,
		Connections:            resolve(rel.Connections, names),
		ConnectionRequests:     resolve(rel.ConnectionRequests, names),
		SentConnectionRequests: resolve(rel.SentConnectionRequests, names),
		Likes:                  resolve(rel.Likes, names),
		CreatedAt:              user.CreatedAt,
	}, nil
}

// Profile returns the public view of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	rel, err := s.store.LoadRelations(ctx, userID)
	if err != nil {
		return nil, err
	}

	names, err := s.store.Usernames(ctx, memberIDs(rel.Connections, rel.Likes))
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:          user.ID,
		Username:    user.Username,
		Connections: resolve(rel.Connections, names),
		Likes:       resolve(rel.Likes, names),
		LikesCount:  len(rel.Likes),
		CreatedAt:   user.CreatedAt,
	}, nil
}

// List returns every user whose username contains search, ignoring case.
func (s *Service) List(ctx context.Context, search string) ([]UserRef, error) {
	users, err := s.store.SearchUsers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	refs := make([]UserRef, len(users))
	for i, u := range users {
		refs[i] = UserRef{ID: u.ID, Username: u.Username}
	}
	return refs, nil
}

// Relationship reports viewerID's connection status with targetID and
// whether viewerID likes targetID.
func (s *Service) Relationship(ctx context.Context, viewerID, targetID string) (*Relationship, error) {
	viewer, err := s.store.LoadRelations(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	target, err := s.store.LoadRelations(ctx, targetID)
	if err != nil {
		return nil, err
	}

	rel := &Relationship{Status: StatusNone, Liked: target.Likes.Has(viewerID)}
	switch {
	case viewer.Connections.Has(targetID):
		rel.Status = StatusConnected
	case viewer.SentConnectionRequests.Has(targetID):
		rel.Status = StatusRequestSent
	case viewer.ConnectionRequests.Has(targetID):
		rel.Status = StatusRequestReceived
	}
	return rel, nil
}

func (s *Service) LikesCount(ctx context.Context, userID string) (int, error) {
	rel, err := s.store.LoadRelations(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(rel.Likes), nil
}

// Usernames resolves ids to usernames. Unknown ids are absent from the map.
func (s *Service) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	return s.store.Usernames(ctx, ids)
}

func memberIDs(sets ...social.IDSet) []string {
	all := social.NewIDSet()
	for _, set := range sets {
		for id := range set {
			all.Add(id)
		}
	}
	return all.Slice()
}

// resolve pairs each member with its username. Members whose record is gone
// are skipped.
func resolve(set social.IDSet, names map[string]string) []UserRef {
	refs := make([]UserRef, 0, len(set))
	for _, id := range set.Slice() {
		name, ok := names[id]
		if !ok {
			continue
		}
		refs = append(refs, UserRef{ID: id, Username: name})
	}
	return refs
}
