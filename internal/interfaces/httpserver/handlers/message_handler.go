package handlers

import (
	"context"

	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/infrastructure/metrics"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/requests"
)

// MessageHandler handles sending, listing and deleting messages.
type MessageHandler struct {
	messages      message.Service
	requireSender bool
}

func NewMessageHandler(messages message.Service, requireSender bool) *MessageHandler {
	return &MessageHandler{messages: messages, requireSender: requireSender}
}

// RequireSender reports whether single-message deletes are limited to the
// message's sender.
func (h *MessageHandler) RequireSender() bool {
	return h.requireSender
}

func (h *MessageHandler) Send(ctx context.Context, senderID string, req *requests.SendMessageRequest) (*message.Message, error) {
	result, err := h.messages.Send(ctx, message.SendInput{
		SenderID:         senderID,
		ReceiverID:       req.Receiver,
		Content:          req.Content,
		ReplyToMessageID: req.ReplyToMessageID,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMessageSent(result.Message.ReplyToMessageID != "", result.NewConversation)
	return result.Message, nil
}

func (h *MessageHandler) ListBetween(ctx context.Context, userID, peerID string) ([]*message.Message, error) {
	return h.messages.ListBetween(ctx, userID, peerID)
}

func (h *MessageHandler) Delete(ctx context.Context, messageID, requesterID string) error {
	if err := h.messages.DeleteOne(ctx, messageID, requesterID, h.requireSender); err != nil {
		return err
	}
	metrics.RecordMessagesDeleted("single", 1)
	return nil
}
