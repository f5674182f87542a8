// Package responses contains HTTP response DTOs for dm-server.
package responses

import (
	"time"

	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type StatusResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of a user. The password hash is never
// part of it.
type UserResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserResponse(u *user.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewUserListResponse(users []*user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse is a stored message as clients see it.
type MessageResponse struct {
	ID               string    `json:"_id"`
	Sender           string    `json:"sender"`
	Receiver         string    `json:"receiver"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	ConversationID   string    `json:"conversationId"`
	ReplyToMessageID string    `json:"replyToMessageId,omitempty"`
}

func NewMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:               m.ID,
		Sender:           m.SenderID,
		Receiver:         m.ReceiverID,
		Content:          m.Content,
		Timestamp:        m.Timestamp,
		ConversationID:   m.ConversationID,
		ReplyToMessageID: m.ReplyToMessageID,
	}
}

func NewMessageListResponse(msgs []*message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

// ConversationMessageResponse is a message with the sender expanded.
type ConversationMessageResponse struct {
	ID               string       `json:"_id"`
	Sender           UserResponse `json:"sender"`
	Receiver         string       `json:"receiver"`
	Content          string       `json:"content"`
	Timestamp        time.Time    `json:"timestamp"`
	ConversationID   string       `json:"conversationId"`
	ReplyToMessageID string       `json:"replyToMessageId,omitempty"`
}

func NewConversationMessagesResponse(msgs []*message.WithSender) []ConversationMessageResponse {
	out := make([]ConversationMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		sender := NewUserResponse(m.Sender)
		if sender.ID == "" {
			sender.ID = m.SenderID
		}
		out = append(out, ConversationMessageResponse{
			ID:               m.ID,
			Sender:           sender,
			Receiver:         m.ReceiverID,
			Content:          m.Content,
			Timestamp:        m.Timestamp,
			ConversationID:   m.ConversationID,
			ReplyToMessageID: m.ReplyToMessageID,
		})
	}
	return out
}

type DeleteConversationResponse struct {
	Success         string `json:"success"`
	ConversationID  string `json:"conversationId"`
	MessagesDeleted int64  `json:"messagesDeleted"`
}

type ClearConversationResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
	Deleted        int64  `json:"deleted"`
}

type DeleteMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
