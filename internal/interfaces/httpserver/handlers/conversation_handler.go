package handlers

import (
	"context"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/metrics"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// ConversationHandler handles conversation listing, history and removal.
type ConversationHandler struct {
	conversations conversation.Service
	messages      message.Service
}

func NewConversationHandler(conversations conversation.Service, messages message.Service) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, messages: messages}
}

// Peers lists the users userID has exchanged messages with.
func (h *ConversationHandler) Peers(ctx context.Context, userID string) ([]*user.User, error) {
	return h.messages.ListPeers(ctx, userID)
}

// History returns the messages of a conversation the requester takes part
// in. An unknown conversation yields an empty history.
func (h *ConversationHandler) History(ctx context.Context, conversationID, requesterID string) ([]*message.WithSender, error) {
	conv, err := h.conversations.Get(ctx, conversationID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return []*message.WithSender{}, nil
		}
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeUnauthorized,
			"not a participant of this conversation", nil, "5b0e2d74-conversation-history-forbidden")
	}
	return h.messages.ListByConversation(ctx, conversationID)
}

func (h *ConversationHandler) Delete(ctx context.Context, conversationID, requesterID string) (*conversation.DeleteResult, error) {
	result, err := h.conversations.Delete(ctx, conversationID, requesterID)
	if err != nil {
		return nil, err
	}
	metrics.RecordConversationDeleted(result.MessagesDeleted)
	return result, nil
}

// Clear removes every message of the conversation and keeps the record.
func (h *ConversationHandler) Clear(ctx context.Context, conversationID, requesterID, otherUserID string) (int64, error) {
	n, err := h.conversations.ClearMessages(ctx, conversationID, requesterID, otherUserID)
	if err != nil {
		return 0, err
	}
	metrics.RecordMessagesDeleted("cleared", n)
	return n, nil
}
