package dbschema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/dm-server/internal/domain/conversation"
)

// Conversation represents the database schema for conversations. The sorted
// pair columns carry the uniqueness constraint; Participants mirrors them as
// the JSON array clients know.
type Conversation struct {
	ID              string                      `gorm:"type:varchar(64);primaryKey"`
	ParticipantLow  string                      `gorm:"type:varchar(64);uniqueIndex:conversations_pair_key;not null"`
	ParticipantHigh string                      `gorm:"type:varchar(64);uniqueIndex:conversations_pair_key;not null"`
	Participants    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time                   `gorm:"not null"`
}

func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:              c.ID,
		ParticipantLow:  c.Participants[0],
		ParticipantHigh: c.Participants[1],
		Participants:    datatypes.JSONSlice[string]{c.Participants[0], c.Participants[1]},
		CreatedAt:       c.CreatedAt,
	}
}

func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:           c.ID,
		Participants: [2]string{c.ParticipantLow, c.ParticipantHigh},
		CreatedAt:    c.CreatedAt,
	}
}
