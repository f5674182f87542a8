package memstore

import (
	"context"

	"github.com/janhq/dm-server/internal/domain/conversation"
)

type ConversationRepository struct {
	s *Store
}

var _ conversation.Repository = (*ConversationRepository)(nil)

func (r *ConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := conversation.PairID(c.Participants[0], c.Participants[1])
	if _, exists := r.s.pairIndex[key]; exists {
		return conversation.ErrDuplicatePair
	}
	cp := *c
	r.s.conversations[c.ID] = &cp
	r.s.pairIndex[key] = c.ID
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.conversations[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ConversationRepository) FindByPair(ctx context.Context, a, b string) (*conversation.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.pairIndex[conversation.PairID(a, b)]
	if !ok {
		return nil, nil
	}
	cp := *r.s.conversations[id]
	return &cp, nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.conversations[id]
	if !ok {
		return nil
	}
	delete(r.s.pairIndex, conversation.PairID(c.Participants[0], c.Participants[1]))
	delete(r.s.conversations, id)
	return nil
}
