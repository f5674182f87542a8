package message

import (
	"context"
	"time"

	"github.com/janhq/dm-server/internal/domain/user"
)

// ReceiverNotFound is the error message for a send to an unknown user.
const ReceiverNotFound = "receiver not found"

// Message is one text sent from Sender to Receiver inside a conversation.
type Message struct {
	ID               string
	ConversationID   string
	SenderID         string
	ReceiverID       string
	Content          string
	ReplyToMessageID string
	Timestamp        time.Time
}

// WithSender pairs a message with the sender's display info.
type WithSender struct {
	*Message
	Sender *user.User
}

// Repository persists messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	// FindByID returns nil, nil when nothing matches.
	FindByID(ctx context.Context, id string) (*Message, error)
	// ListBetween returns messages exchanged by a and b in either direction,
	// oldest first.
	ListBetween(ctx context.Context, a, b string) ([]*Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]*Message, error)
	// Delete reports false when no message had that id.
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByConversation(ctx context.Context, conversationID string) (int64, error)
	// PeerIDs lists the distinct users userID has exchanged messages with.
	PeerIDs(ctx context.Context, userID string) ([]string, error)
	// DeleteOrphans removes messages whose conversation no longer exists.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// SendInput is a message to persist.
type SendInput struct {
	SenderID         string
	ReceiverID       string
	Content          string
	ReplyToMessageID string
}

// SendResult reports the stored message and whether sending it opened a
// new conversation.
type SendResult struct {
	Message         *Message
	NewConversation bool
}
