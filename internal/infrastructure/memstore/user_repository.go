package memstore

import (
	"context"
	"strings"

	"github.com/janhq/dm-server/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.emailIndex[u.Email]; exists {
		return user.ErrDuplicateEmail
	}
	r.s.users[u.ID] = copyUser(u)
	r.s.emailIndex[u.Email] = u.ID
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emailIndex[email]
	if !ok {
		return nil, nil
	}
	return copyUser(r.s.users[id]), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			result = append(result, copyUser(u))
		}
	}
	return result, nil
}

func (r *UserRepository) Search(ctx context.Context, term, excludeID string) ([]*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(term)
	result := make([]*user.User, 0)
	for _, u := range r.s.users {
		if excludeID != "" && u.ID == excludeID {
			continue
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			result = append(result, copyUser(u))
		}
	}
	return result, nil
}

func (r *UserRepository) AddConversation(ctx context.Context, userIDs []string, conversationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range userIDs {
		u, ok := r.s.users[id]
		if !ok || contains(u.Conversations, conversationID) {
			continue
		}
		u.Conversations = append(u.Conversations, conversationID)
	}
	return nil
}

func (r *UserRepository) RemoveConversation(ctx context.Context, conversationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		u.Conversations = without(u.Conversations, conversationID)
	}
	return nil
}

func (r *UserRepository) PruneConversations(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed int64
	for _, u := range r.s.users {
		kept := u.Conversations[:0]
		for _, id := range u.Conversations {
			if _, ok := r.s.conversations[id]; ok {
				kept = append(kept, id)
			} else {
				removed++
			}
		}
		u.Conversations = kept
	}
	return removed, nil
}

func copyUser(u *user.User) *user.User {
	c := *u
	c.Conversations = append([]string(nil), u.Conversations...)
	return &c
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
