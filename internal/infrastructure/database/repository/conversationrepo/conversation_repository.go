package conversationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/dm-server/internal/infrastructure/database/transaction"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.Repository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) *ConversationGormRepository {
	return &ConversationGormRepository{db: db}
}

func (repo *ConversationGormRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	if err := repo.db.GetTx(ctx).Create(dbschema.NewSchemaConversation(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conversation.ErrDuplicatePair
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation", err, "4b1f8d3c-conversation-create")
	}
	return nil
}

func (repo *ConversationGormRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.db.GetTx(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation", err, "d07e2a95-conversation-find")
	}
	return entity.EtoD(), nil
}

// FindByPair reads from the primary so a pair created a moment ago by a
// concurrent send is always visible.
func (repo *ConversationGormRepository) FindByPair(ctx context.Context, a, b string) (*conversation.Conversation, error) {
	low, high := conversation.PairKey(a, b)
	var entity dbschema.Conversation
	err := repo.db.GetTx(ctx).
		Clauses(dbresolver.Write).
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation by participants", err, "81c6f0b4-conversation-find-pair")
	}
	return entity.EtoD(), nil
}

func (repo *ConversationGormRepository) Delete(ctx context.Context, id string) error {
	if err := repo.db.GetTx(ctx).
		Where("id = ?", id).
		Delete(&dbschema.Conversation{}).
		Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation", err, "f59a3e17-conversation-delete")
	}
	return nil
}
