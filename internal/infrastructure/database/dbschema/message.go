package dbschema

import (
	"time"

	"github.com/janhq/dm-server/internal/domain/message"
)

// Message represents the database schema for messages
type Message struct {
	ID               string    `gorm:"type:varchar(64);primaryKey"`
	ConversationID   string    `gorm:"type:varchar(64);not null;index:messages_conversation_sent_idx"`
	SenderID         string    `gorm:"type:varchar(64);not null"`
	ReceiverID       string    `gorm:"type:varchar(64);not null"`
	Content          string    `gorm:"type:text;not null"`
	ReplyToMessageID *string   `gorm:"type:varchar(64)"`
	SentAt           time.Time `gorm:"not null;index:messages_conversation_sent_idx"`
}

func NewSchemaMessage(m *message.Message) *Message {
	var replyTo *string
	if m.ReplyToMessageID != "" {
		id := m.ReplyToMessageID
		replyTo = &id
	}
	return &Message{
		ID:               m.ID,
		ConversationID:   m.ConversationID,
		SenderID:         m.SenderID,
		ReceiverID:       m.ReceiverID,
		Content:          m.Content,
		ReplyToMessageID: replyTo,
		SentAt:           m.Timestamp,
	}
}

func (m *Message) EtoD() *message.Message {
	out := &message.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Timestamp:      m.SentAt.UTC(),
	}
	if m.ReplyToMessageID != nil {
		out.ReplyToMessageID = *m.ReplyToMessageID
	}
	return out
}
