package handlers

import (
	"github.com/google/wire"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Auth         *AuthHandler
	Conversation *ConversationHandler
	Message      *MessageHandler
}

// NewProvider creates a new handler provider.
func NewProvider(auth *AuthHandler, conversations *ConversationHandler, messages *MessageHandler) *Provider {
	return &Provider{
		Auth:         auth,
		Conversation: conversations,
		Message:      messages,
	}
}

// NewProviderFromServices builds every handler from the domain services.
func NewProviderFromServices(cfg *config.Config, users user.Service, conversations conversation.Service, messages message.Service) *Provider {
	return NewProvider(
		NewAuthHandler(users),
		NewConversationHandler(conversations, messages),
		ProvideMessageHandler(cfg, messages),
	)
}

func ProvideMessageHandler(cfg *config.Config, messages message.Service) *MessageHandler {
	return NewMessageHandler(messages, cfg.MessageDeleteRequireSender)
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewAuthHandler,
	NewConversationHandler,
	ProvideMessageHandler,
	NewProvider,
)
