package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// Service resolves and removes two-party conversations.
type Service interface {
	// FindOrCreate returns the conversation for {a, b}, creating it on first
	// use. created reports whether this call made it.
	FindOrCreate(ctx context.Context, a, b string) (conv *Conversation, created bool, err error)
	Get(ctx context.Context, id string) (*Conversation, error)
	Delete(ctx context.Context, id, requesterID string) (*DeleteResult, error)
	ClearMessages(ctx context.Context, id, requesterID, otherUserID string) (int64, error)
}

// DeleteResult describes what a conversation delete removed.
type DeleteResult struct {
	Conversation    *Conversation
	MessagesDeleted int64
}

type service struct {
	repo       Repository
	messages   MessagePurger
	membership Membership
	tx         Transactor
	log        zerolog.Logger
}

// NewService creates a new conversation service.
func NewService(repo Repository, messages MessagePurger, membership Membership, tx Transactor, log zerolog.Logger) Service {
	return &service{
		repo:       repo,
		messages:   messages,
		membership: membership,
		tx:         tx,
		log:        log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) FindOrCreate(ctx context.Context, a, b string) (*Conversation, bool, error) {
	if a == "" || b == "" {
		return nil, false, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"both participants are required", nil, "0c9f5d52-conversation-missing-participant")
	}
	if a == b {
		return nil, false, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"cannot start a conversation with yourself", nil, "b41e7a08-conversation-self")
	}

	existing, err := s.repo.FindByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	low, high := PairKey(a, b)
	conv := &Conversation{
		ID:           uuid.NewString(),
		Participants: [2]string{low, high},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, conv); err != nil {
		if !errors.Is(err, ErrDuplicatePair) {
			return nil, false, err
		}
		// Lost a concurrent first-send; the winner's record is the conversation.
		winner, findErr := s.repo.FindByPair(ctx, a, b)
		if findErr != nil {
			return nil, false, findErr
		}
		if winner == nil {
			return nil, false, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeDatabaseError,
				"conversation vanished after duplicate insert", err, "f2d1c6aa-conversation-race")
		}
		return winner, false, nil
	}

	if err := s.membership.AddConversation(ctx, []string{low, high}, conv.ID); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("failed to attach conversation to users")
	}

	s.log.Debug().Str("conversation_id", conv.ID).Msg("conversation created")
	return conv, true, nil
}

func (s *service) Get(ctx context.Context, id string) (*Conversation, error) {
	if id == "" {
		return nil, missingID(ctx)
	}
	conv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"conversation not found", nil, "3a6b0e95-conversation-not-found")
	}
	return conv, nil
}

func (s *service) Delete(ctx context.Context, id, requesterID string) (*DeleteResult, error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"not a participant of this conversation", nil, "d5c2f817-conversation-delete-forbidden")
	}

	result := &DeleteResult{Conversation: conv}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := s.messages.DeleteByConversation(ctx, conv.ID)
		if err != nil {
			return err
		}
		result.MessagesDeleted = n
		if err := s.repo.Delete(ctx, conv.ID); err != nil {
			return err
		}
		return s.membership.RemoveConversation(ctx, conv.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("conversation_id", conv.ID).
		Int64("messages_deleted", result.MessagesDeleted).
		Msg("conversation deleted")
	return result, nil
}

func (s *service) ClearMessages(ctx context.Context, id, requesterID, otherUserID string) (int64, error) {
	if otherUserID == "" {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"otherUserId is required", nil, "7e35d1b0-conversation-clear-missing-peer")
	}
	conv, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !conv.IsPair(requesterID, otherUserID) {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"conversation does not belong to these users", nil, "a98c4e26-conversation-clear-forbidden")
	}

	n, err := s.messages.DeleteByConversation(ctx, conv.ID)
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("conversation_id", conv.ID).Int64("messages_deleted", n).Msg("conversation cleared")
	return n, nil
}

func missingID(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"conversationId is required", nil, "1bd7e4c3-conversation-missing-id")
}
