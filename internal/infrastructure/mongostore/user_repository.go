package mongostore

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/janhq/dm-server/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if _, err := r.s.users().InsertOne(ctx, newUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrDuplicateEmail
		}
		return dbError(ctx, "failed to create user", err, "1b7e4c90-mongo-user-create")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc userDoc
	err := r.s.users().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(ctx, "failed to find user", err, "a84f2d13-mongo-user-find")
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepository) Search(ctx context.Context, term, excludeID string) ([]*user.User, error) {
	filter := bson.M{}
	if term != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"email": pattern}}
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter)
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*user.User, error) {
	cur, err := r.s.users().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, dbError(ctx, "failed to query users", err, "c3d05e7a-mongo-user-query")
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dbError(ctx, "failed to decode users", err, "5e91b0f4-mongo-user-decode")
	}
	users := make([]*user.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) AddConversation(ctx context.Context, userIDs []string, conversationID string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.s.users().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		bson.M{"$addToSet": bson.M{"conversations": conversationID}},
	)
	if err != nil {
		return dbError(ctx, "failed to attach conversation to users", err, "f2a8c6d1-mongo-user-add-conversation")
	}
	return nil
}

func (r *UserRepository) RemoveConversation(ctx context.Context, conversationID string) error {
	_, err := r.s.users().UpdateMany(ctx,
		bson.M{"conversations": conversationID},
		bson.M{"$pull": bson.M{"conversations": conversationID}},
	)
	if err != nil {
		return dbError(ctx, "failed to detach conversation from users", err, "9b4d1e73-mongo-user-remove-conversation")
	}
	return nil
}

// PruneConversations reports the number of user documents that had stale
// entries, not the number of entries.
func (r *UserRepository) PruneConversations(ctx context.Context) (int64, error) {
	stale, err := staleConversations(ctx,
		distinctIDs(r.s.users(), "conversations", "a83d6f20-mongo-user-orphan-refs"),
		r.s.conversationIDs,
	)
	if err != nil || len(stale) == 0 {
		return 0, err
	}
	res, err := r.s.users().UpdateMany(ctx,
		bson.M{"conversations": bson.M{"$in": stale}},
		bson.M{"$pull": bson.M{"conversations": bson.M{"$in": stale}}},
	)
	if err != nil {
		return 0, dbError(ctx, "failed to prune user conversations", err, "2e6f8a05-mongo-user-prune")
	}
	return res.ModifiedCount, nil
}
