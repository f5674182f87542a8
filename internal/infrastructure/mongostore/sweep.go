package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type idLister func(ctx context.Context) ([]string, error)

// staleConversations returns the ids in referenced that are missing from
// live. referenced is read first: a conversation created after that read is
// not in it, so a sweep racing a first send never reports it.
func staleConversations(ctx context.Context, referenced, live idLister) ([]string, error) {
	refs, err := referenced(ctx)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	ids, err := live(ctx)
	if err != nil {
		return nil, err
	}

	alive := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		alive[id] = struct{}{}
	}
	var stale []string
	for _, id := range refs {
		if _, ok := alive[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale, nil
}

// distinctIDs lists the distinct string values of field in coll. Array
// fields contribute each element.
func distinctIDs(coll *mongo.Collection, field, errorCode string) idLister {
	return func(ctx context.Context) ([]string, error) {
		res := coll.Distinct(ctx, field, bson.M{})
		if err := res.Err(); err != nil {
			return nil, dbError(ctx, "failed to list referenced conversations", err, errorCode)
		}
		var ids []string
		if err := res.Decode(&ids); err != nil {
			return nil, dbError(ctx, "failed to decode referenced conversations", err, errorCode)
		}
		return ids, nil
	}
}
