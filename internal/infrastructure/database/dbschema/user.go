package dbschema

import (
	"time"

	"github.com/janhq/dm-server/internal/domain/user"
)

// User represents the database schema for users
type User struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(320);uniqueIndex:users_email_key;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// UserConversation is one entry of a user's conversation list.
type UserConversation struct {
	UserID         string `gorm:"type:varchar(64);primaryKey"`
	ConversationID string `gorm:"type:varchar(64);primaryKey;index"`
}

func NewSchemaUser(u *user.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (u *User) EtoD(conversations []string) *user.User {
	return &user.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Conversations: conversations,
		CreatedAt:     u.CreatedAt,
	}
}
