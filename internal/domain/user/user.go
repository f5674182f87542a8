package user

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateEmail is returned by a Repository when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Conversations []string
	CreatedAt     time.Time
}

// Repository persists users and their conversation lists.
type Repository interface {
	// Create stores u, returning ErrDuplicateEmail when the email exists.
	Create(ctx context.Context, u *User) error
	// FindByID returns nil, nil when no user matches.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	// Search matches term case-insensitively against name or email,
	// skipping excludeID when set.
	Search(ctx context.Context, term, excludeID string) ([]*User, error)

	AddConversation(ctx context.Context, userIDs []string, conversationID string) error
	RemoveConversation(ctx context.Context, conversationID string) error
	// PruneConversations drops list entries whose conversation no longer
	// exists and reports how many were removed.
	PruneConversations(ctx context.Context) (int64, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}
