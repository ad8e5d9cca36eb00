package models

import "time"

// User represents an account. Relation sets are stored as UserRelation rows
// and notifications as Notification rows, both keyed by the user's ID.
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"index"`

	Relations     []UserRelation `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
	Notifications []Notification `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
}
