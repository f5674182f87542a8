package domain

import (
	"github.com/google/wire"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
)

var ServiceProvider = wire.NewSet(
	user.NewService,
	conversation.NewService,
	message.NewService,
)
