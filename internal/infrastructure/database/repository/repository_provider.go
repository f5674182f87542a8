package repository

import (
	"github.com/google/wire"

	"github.com/janhq/dm-server/internal/infrastructure/database/repository/conversationrepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/messagerepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/userrepo"
)

var RepositoryProvider = wire.NewSet(
	userrepo.NewUserGormRepository,
	conversationrepo.NewConversationGormRepository,
	messagerepo.NewMessageGormRepository,
)
