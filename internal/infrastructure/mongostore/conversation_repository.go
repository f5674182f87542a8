package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/janhq/dm-server/internal/domain/conversation"
)

type ConversationRepository struct {
	s *Store
}

var _ conversation.Repository = (*ConversationRepository)(nil)

func (r *ConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	if _, err := r.s.conversations().InsertOne(ctx, newConversationDoc(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return conversation.ErrDuplicatePair
		}
		return dbError(ctx, "failed to create conversation", err, "7d3b9e21-mongo-conversation-create")
	}
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ConversationRepository) FindByPair(ctx context.Context, a, b string) (*conversation.Conversation, error) {
	return r.findOne(ctx, bson.M{"pair_key": conversation.PairID(a, b)})
}

func (r *ConversationRepository) findOne(ctx context.Context, filter bson.M) (*conversation.Conversation, error) {
	var doc conversationDoc
	err := r.s.conversations().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(ctx, "failed to find conversation", err, "e5a17c48-mongo-conversation-find")
	}
	return doc.toDomain(), nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.s.conversations().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return dbError(ctx, "failed to delete conversation", err, "30c8f6b9-mongo-conversation-delete")
	}
	return nil
}

// conversationIDs lists every live conversation id.
func (s *Store) conversationIDs(ctx context.Context) ([]string, error) {
	cur, err := s.conversations().Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, dbError(ctx, "failed to list conversations", err, "84f2a1d6-mongo-conversation-ids")
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dbError(ctx, "failed to decode conversations", err, "b1e9d473-mongo-conversation-ids-decode")
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
