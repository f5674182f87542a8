package userrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/dm-server/internal/infrastructure/database/transaction"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *transaction.Database
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *transaction.Database) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) Create(ctx context.Context, u *user.User) error {
	if err := repo.db.GetTx(ctx).Create(dbschema.NewSchemaUser(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrDuplicateEmail
		}
		return dbError(ctx, "failed to create user", err, "0d1e4f6a-user-create")
	}
	return nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *UserGormRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *UserGormRepository) findOne(ctx context.Context, query string, arg string) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.GetTx(ctx).
		Where(query, arg).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(ctx, "failed to find user", err, "5c8b2e71-user-find")
	}

	var conversations []string
	if err := repo.db.GetTx(ctx).
		Model(&dbschema.UserConversation{}).
		Where("user_id = ?", entity.ID).
		Order("conversation_id").
		Pluck("conversation_id", &conversations).
		Error; err != nil {
		return nil, dbError(ctx, "failed to load user conversations", err, "a3f09d27-user-conversations")
	}
	return entity.EtoD(conversations), nil
}

func (repo *UserGormRepository) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}
	var entities []dbschema.User
	if err := repo.db.GetTx(ctx).
		Where("id IN ?", ids).
		Find(&entities).
		Error; err != nil {
		return nil, dbError(ctx, "failed to find users", err, "e61b7c94-user-find-many")
	}
	return toDomain(entities), nil
}

func (repo *UserGormRepository) Search(ctx context.Context, term, excludeID string) ([]*user.User, error) {
	query := repo.db.GetTx(ctx).Model(&dbschema.User{})
	if term != "" {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where("(name ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var entities []dbschema.User
	if err := query.Order("name").Find(&entities).Error; err != nil {
		return nil, dbError(ctx, "failed to search users", err, "7f2a5d18-user-search")
	}
	return toDomain(entities), nil
}

func (repo *UserGormRepository) AddConversation(ctx context.Context, userIDs []string, conversationID string) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]dbschema.UserConversation, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, dbschema.UserConversation{UserID: id, ConversationID: conversationID})
	}
	if err := repo.db.GetTx(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).
		Error; err != nil {
		return dbError(ctx, "failed to attach conversation to users", err, "b84e0c3d-user-add-conversation")
	}
	return nil
}

func (repo *UserGormRepository) RemoveConversation(ctx context.Context, conversationID string) error {
	if err := repo.db.GetTx(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&dbschema.UserConversation{}).
		Error; err != nil {
		return dbError(ctx, "failed to detach conversation from users", err, "2c97f4e5-user-remove-conversation")
	}
	return nil
}

func (repo *UserGormRepository) PruneConversations(ctx context.Context) (int64, error) {
	result := repo.db.GetTx(ctx).Exec(
		`DELETE FROM dm.user_conversations uc
		 WHERE NOT EXISTS (SELECT 1 FROM dm.conversations c WHERE c.id = uc.conversation_id)`,
	)
	if result.Error != nil {
		return 0, dbError(ctx, "failed to prune user conversations", result.Error, "9e3d6b02-user-prune")
	}
	return result.RowsAffected, nil
}

func toDomain(entities []dbschema.User) []*user.User {
	users := make([]*user.User, 0, len(entities))
	for i := range entities {
		users = append(users, entities[i].EtoD(nil))
	}
	return users
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside an ILIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func dbError(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, code)
}
