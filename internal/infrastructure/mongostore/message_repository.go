package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
)

type MessageRepository struct {
	s *Store
}

var (
	_ message.Repository         = (*MessageRepository)(nil)
	_ conversation.MessagePurger = (*MessageRepository)(nil)
)

var chronological = bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}

func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	if _, err := r.s.messages().InsertOne(ctx, newMessageDoc(m)); err != nil {
		return dbError(ctx, "failed to create message", err, "4a6c2e80-mongo-message-create")
	}
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*message.Message, error) {
	var doc messageDoc
	err := r.s.messages().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(ctx, "failed to find message", err, "d9b3f157-mongo-message-find")
	}
	return doc.toDomain(), nil
}

func (r *MessageRepository) ListBetween(ctx context.Context, a, b string) ([]*message.Message, error) {
	return r.list(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}})
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*message.Message, error) {
	return r.list(ctx, bson.M{"conversationId": conversationID})
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M) ([]*message.Message, error) {
	cur, err := r.s.messages().Find(ctx, filter, options.Find().SetSort(chronological))
	if err != nil {
		return nil, dbError(ctx, "failed to list messages", err, "6e0a4b92-mongo-message-list")
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dbError(ctx, "failed to decode messages", err, "f7c18d36-mongo-message-decode")
	}
	msgs := make([]*message.Message, 0, len(docs))
	for i := range docs {
		msgs = append(msgs, docs[i].toDomain())
	}
	return msgs, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.s.messages().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, dbError(ctx, "failed to delete message", err, "28e5a9c1-mongo-message-delete")
	}
	return res.DeletedCount > 0, nil
}

func (r *MessageRepository) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	res, err := r.s.messages().DeleteMany(ctx, bson.M{"conversationId": conversationID})
	if err != nil {
		return 0, dbError(ctx, "failed to delete conversation messages", err, "b0d47f2e-mongo-message-delete-conversation")
	}
	return res.DeletedCount, nil
}

func (r *MessageRepository) PeerIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"sender": 1, "receiver": 1})
	cur, err := r.s.messages().Find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": userID},
		bson.M{"receiver": userID},
	}}, opts)
	if err != nil {
		return nil, dbError(ctx, "failed to list conversation peers", err, "c5f93a08-mongo-message-peers")
	}
	defer cur.Close(ctx)

	seen := make(map[string]struct{})
	peers := make([]string, 0)
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, dbError(ctx, "failed to decode conversation peer", err, "19a7e6d4-mongo-message-peers-decode")
		}
		peer := doc.Receiver
		if doc.Receiver == userID {
			peer = doc.Sender
		}
		if _, ok := seen[peer]; ok {
			continue
		}
		seen[peer] = struct{}{}
		peers = append(peers, peer)
	}
	if err := cur.Err(); err != nil {
		return nil, dbError(ctx, "failed to iterate conversation peers", err, "e2b85c17-mongo-message-peers-cursor")
	}
	return peers, nil
}

func (r *MessageRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	stale, err := staleConversations(ctx,
		distinctIDs(r.s.messages(), "conversationId", "5c2e9b71-mongo-message-orphan-refs"),
		r.s.conversationIDs,
	)
	if err != nil || len(stale) == 0 {
		return 0, err
	}
	res, err := r.s.messages().DeleteMany(ctx, bson.M{"conversationId": bson.M{"$in": stale}})
	if err != nil {
		return 0, dbError(ctx, "failed to delete orphan messages", err, "73d1f0ae-mongo-message-orphans")
	}
	return res.DeletedCount, nil
}
