package conversation

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicatePair is returned by Repository.Create when a conversation for
// the same participant pair already exists.
var ErrDuplicatePair = errors.New("conversation for participant pair already exists")

// Conversation is the single thread between two users. Participants are
// kept sorted so the pair has one canonical form.
type Conversation struct {
	ID           string
	Participants [2]string
	CreatedAt    time.Time
}

// PairKey returns the participants in canonical order.
func PairKey(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// PairID joins the canonical pair into a single key.
func PairID(a, b string) string {
	low, high := PairKey(a, b)
	return low + ":" + high
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// IsPair reports whether the participant set is exactly {a, b}.
func (c *Conversation) IsPair(a, b string) bool {
	low, high := PairKey(a, b)
	return c.Participants[0] == low && c.Participants[1] == high
}

// Peer returns the participant that is not userID.
func (c *Conversation) Peer(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// Repository persists conversations.
type Repository interface {
	// Create returns ErrDuplicatePair if the pair already has a conversation.
	Create(ctx context.Context, c *Conversation) error
	// FindByID and FindByPair return nil, nil when nothing matches.
	FindByID(ctx context.Context, id string) (*Conversation, error)
	FindByPair(ctx context.Context, a, b string) (*Conversation, error)
	Delete(ctx context.Context, id string) error
}

// MessagePurger removes the messages of a conversation.
type MessagePurger interface {
	DeleteByConversation(ctx context.Context, conversationID string) (int64, error)
}

// Membership maintains the user-side conversation lists.
type Membership interface {
	AddConversation(ctx context.Context, userIDs []string, conversationID string) error
	RemoveConversation(ctx context.Context, conversationID string) error
}

// Transactor runs fn atomically when the backing store supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
