package mongostore

import (
	"time"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
)

type userDoc struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	Password      string    `bson:"password"`
	Conversations []string  `bson:"conversations"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func newUserDoc(u *user.User) *userDoc {
	conversations := u.Conversations
	if conversations == nil {
		conversations = []string{}
	}
	return &userDoc{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.PasswordHash,
		Conversations: conversations,
		CreatedAt:     u.CreatedAt,
	}
}

func (d *userDoc) toDomain() *user.User {
	return &user.User{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.Password,
		Conversations: d.Conversations,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// conversationDoc stores the pair twice: sorted in participants for readers
// and joined in pair_key for the unique index.
type conversationDoc struct {
	ID           string    `bson:"_id"`
	Participants []string  `bson:"participants"`
	PairKey      string    `bson:"pair_key"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func newConversationDoc(c *conversation.Conversation) *conversationDoc {
	return &conversationDoc{
		ID:           c.ID,
		Participants: []string{c.Participants[0], c.Participants[1]},
		PairKey:      conversation.PairID(c.Participants[0], c.Participants[1]),
		CreatedAt:    c.CreatedAt,
	}
}

func (d *conversationDoc) toDomain() *conversation.Conversation {
	c := &conversation.Conversation{ID: d.ID, CreatedAt: d.CreatedAt.UTC()}
	if len(d.Participants) == 2 {
		low, high := conversation.PairKey(d.Participants[0], d.Participants[1])
		c.Participants = [2]string{low, high}
	}
	return c
}

type messageDoc struct {
	ID               string    `bson:"_id"`
	ConversationID   string    `bson:"conversationId"`
	Sender           string    `bson:"sender"`
	Receiver         string    `bson:"receiver"`
	Content          string    `bson:"content"`
	ReplyToMessageID string    `bson:"replyToMessageId,omitempty"`
	Timestamp        time.Time `bson:"timestamp"`
}

func newMessageDoc(m *message.Message) *messageDoc {
	return &messageDoc{
		ID:               m.ID,
		ConversationID:   m.ConversationID,
		Sender:           m.SenderID,
		Receiver:         m.ReceiverID,
		Content:          m.Content,
		ReplyToMessageID: m.ReplyToMessageID,
		Timestamp:        m.Timestamp,
	}
}

func (d *messageDoc) toDomain() *message.Message {
	return &message.Message{
		ID:               d.ID,
		ConversationID:   d.ConversationID,
		SenderID:         d.Sender,
		ReceiverID:       d.Receiver,
		Content:          d.Content,
		ReplyToMessageID: d.ReplyToMessageID,
		Timestamp:        d.Timestamp.UTC(),
	}
}
