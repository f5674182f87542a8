package messagerepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/dm-server/internal/infrastructure/database/transaction"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

type MessageGormRepository struct {
	db *transaction.Database
}

var (
	_ message.Repository         = (*MessageGormRepository)(nil)
	_ conversation.MessagePurger = (*MessageGormRepository)(nil)
)

func NewMessageGormRepository(db *transaction.Database) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

func (repo *MessageGormRepository) Create(ctx context.Context, m *message.Message) error {
	if err := repo.db.GetTx(ctx).Create(dbschema.NewSchemaMessage(m)).Error; err != nil {
		return dbError(ctx, "failed to create message", err, "c2e94a60-message-create")
	}
	return nil
}

func (repo *MessageGormRepository) FindByID(ctx context.Context, id string) (*message.Message, error) {
	var entity dbschema.Message
	err := repo.db.GetTx(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(ctx, "failed to find message", err, "6a0d3f85-message-find")
	}
	return entity.EtoD(), nil
}

func (repo *MessageGormRepository) ListBetween(ctx context.Context, a, b string) ([]*message.Message, error) {
	return repo.list(ctx, repo.db.GetTx(ctx).Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a,
	))
}

func (repo *MessageGormRepository) ListByConversation(ctx context.Context, conversationID string) ([]*message.Message, error) {
	return repo.list(ctx, repo.db.GetTx(ctx).Where("conversation_id = ?", conversationID))
}

func (repo *MessageGormRepository) list(ctx context.Context, query *gorm.DB) ([]*message.Message, error) {
	var entities []dbschema.Message
	if err := query.Order("sent_at ASC, id ASC").Find(&entities).Error; err != nil {
		return nil, dbError(ctx, "failed to list messages", err, "3e7b51c9-message-list")
	}
	msgs := make([]*message.Message, 0, len(entities))
	for i := range entities {
		msgs = append(msgs, entities[i].EtoD())
	}
	return msgs, nil
}

func (repo *MessageGormRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := repo.db.GetTx(ctx).Where("id = ?", id).Delete(&dbschema.Message{})
	if result.Error != nil {
		return false, dbError(ctx, "failed to delete message", result.Error, "b5f1e8d2-message-delete")
	}
	return result.RowsAffected > 0, nil
}

func (repo *MessageGormRepository) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	result := repo.db.GetTx(ctx).Where("conversation_id = ?", conversationID).Delete(&dbschema.Message{})
	if result.Error != nil {
		return 0, dbError(ctx, "failed to delete conversation messages", result.Error, "0a8c4d7e-message-delete-conversation")
	}
	return result.RowsAffected, nil
}

func (repo *MessageGormRepository) PeerIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := repo.db.GetTx(ctx).Raw(
		`SELECT DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		 FROM dm.messages
		 WHERE sender_id = ? OR receiver_id = ?`,
		userID, userID, userID,
	).Rows()
	if err != nil {
		return nil, dbError(ctx, "failed to list conversation peers", err, "d4b6a2f1-message-peers")
	}
	defer rows.Close()

	peers := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbError(ctx, "failed to scan conversation peer", err, "e8c3f0a9-message-peers-scan")
		}
		peers = append(peers, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(ctx, "failed to iterate conversation peers", err, "17a9d5b3-message-peers-rows")
	}
	return peers, nil
}

func (repo *MessageGormRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	result := repo.db.GetTx(ctx).Exec(
		`DELETE FROM dm.messages m
		 WHERE NOT EXISTS (SELECT 1 FROM dm.conversations c WHERE c.id = m.conversation_id)`,
	)
	if result.Error != nil {
		return 0, dbError(ctx, "failed to delete orphan messages", result.Error, "5d2e7b8c-message-orphans")
	}
	return result.RowsAffected, nil
}

func dbError(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, code)
}
