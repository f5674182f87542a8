package message

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/replythread"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// Service sends, lists and deletes messages.
type Service interface {
	Send(ctx context.Context, in SendInput) (*SendResult, error)
	ListBetween(ctx context.Context, a, b string) ([]*Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]*WithSender, error)
	DeleteOne(ctx context.Context, messageID, requesterID string, requireSender bool) error
	ListPeers(ctx context.Context, userID string) ([]*user.User, error)
}

type service struct {
	repo          Repository
	conversations conversation.Service
	users         user.Service
	log           zerolog.Logger
}

// NewService creates a new message service.
func NewService(repo Repository, conversations conversation.Service, users user.Service, log zerolog.Logger) Service {
	return &service{
		repo:          repo,
		conversations: conversations,
		users:         users,
		log:           log.With().Str("component", "message-service").Logger(),
	}
}

func (s *service) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	if in.ReceiverID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"receiver is required", nil, "4e8a2b61-message-missing-receiver")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"content is required", nil, "a0b3f9d7-message-empty-content")
	}
	if _, err := s.users.Get(ctx, in.ReceiverID); err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				ReceiverNotFound, err, "7b3e5d19-message-receiver-not-found")
		}
		return nil, err
	}

	content := in.Content
	if in.ReplyToMessageID != "" {
		var err error
		content, err = s.quote(ctx, in)
		if err != nil {
			return nil, err
		}
	}

	conv, created, err := s.conversations.FindOrCreate(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:               newMessageID(),
		ConversationID:   conv.ID,
		SenderID:         in.SenderID,
		ReceiverID:       in.ReceiverID,
		Content:          content,
		ReplyToMessageID: in.ReplyToMessageID,
		Timestamp:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("message_id", msg.ID).
		Str("conversation_id", conv.ID).
		Bool("reply", msg.ReplyToMessageID != "").
		Msg("message stored")
	return &SendResult{Message: msg, NewConversation: created}, nil
}

// quote validates the replied-to message and returns the content with its
// body embedded as the reply excerpt, unless the caller already encoded one.
func (s *service) quote(ctx context.Context, in SendInput) (string, error) {
	if _, err := uuid.Parse(in.ReplyToMessageID); err != nil {
		return "", invalidMessageID(ctx)
	}
	target, err := s.repo.FindByID(ctx, in.ReplyToMessageID)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"replied message not found", nil, "c71e0d48-message-reply-target-missing")
	}
	if conversation.PairID(target.SenderID, target.ReceiverID) != conversation.PairID(in.SenderID, in.ReceiverID) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"replied message belongs to another conversation", nil, "2d94b5fe-message-reply-other-pair")
	}
	if replythread.IsEncoded(in.Content) {
		return in.Content, nil
	}

	encoded, err := replythread.Encode(replythread.Decode(target.Content).Body, in.Content)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"replied message cannot be quoted", err, "93f0a6c2-message-reply-marker")
	}
	return encoded, nil
}

func (s *service) ListBetween(ctx context.Context, a, b string) ([]*Message, error) {
	if b == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"receiver is required", nil, "6f1c8e3d-message-list-missing-receiver")
	}
	msgs, err := s.repo.ListBetween(ctx, a, b)
	if err != nil {
		return nil, err
	}
	SortChronologically(msgs)
	return msgs, nil
}

func (s *service) ListByConversation(ctx context.Context, conversationID string) ([]*WithSender, error) {
	msgs, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	SortChronologically(msgs)

	senderIDs := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	senders, err := s.users.GetMany(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*user.User, len(senders))
	for _, u := range senders {
		byID[u.ID] = u
	}

	out := make([]*WithSender, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &WithSender{Message: m, Sender: byID[m.SenderID]})
	}
	return out, nil
}

func (s *service) DeleteOne(ctx context.Context, messageID, requesterID string, requireSender bool) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return invalidMessageID(ctx)
	}

	if requireSender {
		msg, err := s.repo.FindByID(ctx, messageID)
		if err != nil {
			return err
		}
		if msg == nil {
			return messageNotFound(ctx)
		}
		if msg.SenderID != requesterID {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
				"only the sender can delete this message", nil, "e4a7c093-message-delete-not-sender")
		}
	}

	deleted, err := s.repo.Delete(ctx, messageID)
	if err != nil {
		return err
	}
	if !deleted {
		return messageNotFound(ctx)
	}
	return nil
}

func (s *service) ListPeers(ctx context.Context, userID string) ([]*user.User, error) {
	ids, err := s.repo.PeerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetMany(ctx, ids)
}

// SortChronologically orders messages by timestamp, then id.
func SortChronologically(msgs []*Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.Before(msgs[j].Timestamp)
		}
		return msgs[i].ID < msgs[j].ID
	})
}

// newMessageID returns a time-ordered id so equal timestamps still sort in
// insertion order.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func invalidMessageID(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"invalid message id", nil, "58b2d7e1-message-invalid-id")
}

func messageNotFound(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"message not found", nil, "0f6e9a34-message-not-found")
}
