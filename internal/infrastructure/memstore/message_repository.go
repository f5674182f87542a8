package memstore

import (
	"context"

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

func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *m
	r.s.messages[m.ID] = &cp
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MessageRepository) ListBetween(ctx context.Context, a, b string) ([]*message.Message, error) {
	return r.filter(func(m *message.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}), nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*message.Message, error) {
	return r.filter(func(m *message.Message) bool {
		return m.ConversationID == conversationID
	}), nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[id]; !ok {
		return false, nil
	}
	delete(r.s.messages, id)
	return true, nil
}

func (r *MessageRepository) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, m := range r.s.messages {
		if m.ConversationID == conversationID {
			delete(r.s.messages, id)
			n++
		}
	}
	return n, nil
}

func (r *MessageRepository) PeerIDs(ctx context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	peers := make([]string, 0)
	for _, m := range r.s.messages {
		var peer string
		switch userID {
		case m.SenderID:
			peer = m.ReceiverID
		case m.ReceiverID:
			peer = m.SenderID
		default:
			continue
		}
		if _, ok := seen[peer]; ok {
			continue
		}
		seen[peer] = struct{}{}
		peers = append(peers, peer)
	}
	return peers, nil
}

func (r *MessageRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, m := range r.s.messages {
		if _, ok := r.s.conversations[m.ConversationID]; !ok {
			delete(r.s.messages, id)
			n++
		}
	}
	return n, nil
}

func (r *MessageRepository) filter(keep func(*message.Message) bool) []*message.Message {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*message.Message, 0)
	for _, m := range r.s.messages {
		if keep(m) {
			cp := *m
			result = append(result, &cp)
		}
	}
	message.SortChronologically(result)
	return result
}
