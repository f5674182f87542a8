// Package memstore keeps users, conversations and messages in process
// memory. It backs STORAGE_DRIVER=memory and the service tests.
package memstore

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
)

// Store is a mutex-guarded in-memory database shared by the repositories.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*user.User
	emailIndex    map[string]string // email -> user ID
	conversations map[string]*conversation.Conversation
	pairIndex     map[string]string // pair key -> conversation ID
	messages      map[string]*message.Message
	log           zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		users:         make(map[string]*user.User),
		emailIndex:    make(map[string]string),
		conversations: make(map[string]*conversation.Conversation),
		pairIndex:     make(map[string]string),
		messages:      make(map[string]*message.Message),
		log:           log.With().Str("component", "memory-store").Logger(),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Conversations returns the conversation repository view of the store.
func (s *Store) Conversations() *ConversationRepository { return &ConversationRepository{s: s} }

// Messages returns the message repository view of the store.
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

// WithinTransaction runs fn directly. Each repository call is atomic on its
// own; the steps of fn are not isolated from concurrent callers.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close releases nothing.
func (s *Store) Close(ctx context.Context) error { return nil }

var _ conversation.Transactor = (*Store)(nil)
