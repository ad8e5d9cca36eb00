// Package sqlstore persists users, relation sets and notification logs with gorm.
//
// Relation sets are rows of models.UserRelation. Every relation update runs in
// one transaction that first locks the affected users rows (SELECT ... FOR
// UPDATE, in id order), so concurrent transitions on the same users serialize
// instead of overwriting each other.
package sqlstore

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/models"
	"socialportfolio/backend/internal/social"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements social.Store, social.FeedStore and account.Store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// region --- Accounts ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return account.ErrUsernameTaken
	}
	return err
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// SearchUsers returns users whose username contains search, ignoring case.
// The search text is matched literally.
func (s *Store) SearchUsers(ctx context.Context, search string) ([]models.User, error) {
	var users []models.User
	query := s.db.WithContext(ctx).Model(&models.User{}).Select("id", "username")
	if search != "" {
		query = query.Where(`LOWER(username) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if err := query.Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

func (s *Store) LoadRelations(ctx context.Context, userID string) (*social.Relations, error) {
	db := s.db.WithContext(ctx)
	if err := requireUsers(db, userID); err != nil {
		return nil, err
	}
	return loadRelations(db, userID)
}

// endregion

// region --- Relations ---

func (s *Store) UpdatePair(ctx context.Context, firstID, secondID string, fn func(first, second *social.Relations) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUsers(tx, firstID, secondID); err != nil {
			return err
		}
		first, err := loadRelations(tx, firstID)
		if err != nil {
			return err
		}
		second, err := loadRelations(tx, secondID)
		if err != nil {
			return err
		}

		firstBefore, secondBefore := first.Clone(), second.Clone()
		if err := fn(first, second); err != nil {
			return err
		}
		if err := saveChanges(tx, first, firstBefore); err != nil {
			return err
		}
		return saveChanges(tx, second, secondBefore)
	})
}

func (s *Store) UpdateOne(ctx context.Context, userID string, fn func(r *social.Relations) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUsers(tx, userID); err != nil {
			return err
		}
		r, err := loadRelations(tx, userID)
		if err != nil {
			return err
		}
		before := r.Clone()
		if err := fn(r); err != nil {
			return err
		}
		return saveChanges(tx, r, before)
	})
}

// PullMember deletes memberID from every relation set in a single statement.
func (s *Store) PullMember(ctx context.Context, memberID string) error {
	return s.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&models.UserRelation{}).Error
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", userID).Delete(&models.UserRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return social.ErrNotFound
		}
		return nil
	})
}

// endregion

// region --- Notifications ---

func (s *Store) AppendNotification(ctx context.Context, n social.Notification) (social.Notification, error) {
	db := s.db.WithContext(ctx)
	if err := requireUsers(db, n.OwnerID); err != nil {
		return social.Notification{}, err
	}

	row := models.Notification{
		OwnerID:   n.OwnerID,
		Kind:      n.Kind,
		SourceID:  n.SourceID,
		Message:   n.Message,
		IsRead:    n.Read,
		CreatedAt: n.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return social.Notification{}, err
	}
	return toNotification(row), nil
}

func (s *Store) Notifications(ctx context.Context, ownerID string) ([]social.Notification, error) {
	db := s.db.WithContext(ctx)
	if err := requireUsers(db, ownerID); err != nil {
		return nil, err
	}

	var rows []models.Notification
	if err := db.Where("owner_id = ?", ownerID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]social.Notification, len(rows))
	for i, row := range rows {
		entries[i] = toNotification(row)
	}
	return entries, nil
}

func (s *Store) MarkNotificationsRead(ctx context.Context, ownerID string) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("owner_id = ?", ownerID).
		Update("is_read", true).Error
}

func (s *Store) DeleteNotification(ctx context.Context, ownerID, notificationID string) error {
	id, err := strconv.ParseUint(notificationID, 10, 64)
	if err != nil {
		// Not an id this store could have issued.
		return nil
	}
	return s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Notification{}).Error
}

// endregion

// region --- Helpers ---

// lockUsers locks the users rows for ids until the transaction ends and
// fails with social.ErrNotFound if any of them is missing.
func lockUsers(tx *gorm.DB, ids ...string) error {
	var users []models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", ids).
		Order("id").
		Find(&users).Error
	if err != nil {
		return err
	}
	if len(users) != len(social.NewIDSet(ids...)) {
		return social.ErrNotFound
	}
	return nil
}

func requireUsers(db *gorm.DB, ids ...string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(social.NewIDSet(ids...))) {
		return social.ErrNotFound
	}
	return nil
}

func loadRelations(db *gorm.DB, userID string) (*social.Relations, error) {
	var rows []models.UserRelation
	if err := db.Where("owner_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	r := social.NewRelations(userID)
	for _, row := range rows {
		if set := r.Set(row.Kind); set != nil {
			set.Add(row.MemberID)
		}
	}
	return r, nil
}

func saveChanges(tx *gorm.DB, after, before *social.Relations) error {
	for _, change := range after.Changes(before) {
		if len(change.Removed) > 0 {
			err := tx.Where("owner_id = ? AND kind = ? AND member_id IN ?", after.UserID, change.Kind, change.Removed).
				Delete(&models.UserRelation{}).Error
			if err != nil {
				return err
			}
		}
		if len(change.Added) > 0 {
			rows := make([]models.UserRelation, len(change.Added))
			for i, memberID := range change.Added {
				rows[i] = models.UserRelation{OwnerID: after.UserID, Kind: change.Kind, MemberID: memberID}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func toNotification(row models.Notification) social.Notification {
	return social.Notification{
		ID:        strconv.FormatUint(uint64(row.ID), 10),
		OwnerID:   row.OwnerID,
		Kind:      row.Kind,
		SourceID:  row.SourceID,
		Message:   row.Message,
		Read:      row.IsRead,
		CreatedAt: row.CreatedAt,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return social.ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// endregion
