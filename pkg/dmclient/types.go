package dmclient

import (
	"sort"
	"time"

	"github.com/janhq/dm-server/internal/domain/replythread"
)

// User is the public view of an account.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Message is a stored message as returned by the server.
type Message struct {
	ID               string    `json:"_id"`
	Sender           string    `json:"sender"`
	Receiver         string    `json:"receiver"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	ConversationID   string    `json:"conversationId"`
	ReplyToMessageID string    `json:"replyToMessageId,omitempty"`
}

// ConversationMessage is a message with the sender expanded.
type ConversationMessage struct {
	ID               string    `json:"_id"`
	Sender           User      `json:"sender"`
	Receiver         string    `json:"receiver"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	ConversationID   string    `json:"conversationId"`
	ReplyToMessageID string    `json:"replyToMessageId,omitempty"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SendRequest struct {
	Receiver         string `json:"receiver"`
	Content          string `json:"content"`
	ReplyToMessageID string `json:"replyToMessageId,omitempty"`
}

type authResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type deleteConversationResponse struct {
	MessagesDeleted int64 `json:"messagesDeleted"`
}

type clearConversationResponse struct {
	Deleted int64 `json:"deleted"`
}

// DecodedMessage is a message with its reply excerpt split from the body.
type DecodedMessage struct {
	Message
	Excerpt string
	Body    string
}

// IsReply reports whether the message quotes another one.
func (m DecodedMessage) IsReply() bool {
	return m.Excerpt != ""
}

// Decode splits the reply excerpt out of m's content.
func Decode(m Message) DecodedMessage {
	t := replythread.Decode(m.Content)
	return DecodedMessage{Message: m, Excerpt: t.Excerpt, Body: t.Body}
}

// DecodeAll decodes msgs and orders them by timestamp, then id.
func DecodeAll(msgs []Message) []DecodedMessage {
	out := make([]DecodedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Decode(m))
	}
	sortMessages(out)
	return out
}

func sortMessages(msgs []DecodedMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.Before(msgs[j].Timestamp)
		}
		return msgs[i].ID < msgs[j].ID
	})
}
