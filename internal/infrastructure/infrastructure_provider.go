package infrastructure

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/auth"
	"github.com/janhq/dm-server/internal/infrastructure/crontab"
	"github.com/janhq/dm-server/internal/infrastructure/database"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/conversationrepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/messagerepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/userrepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/transaction"
	"github.com/janhq/dm-server/internal/infrastructure/memstore"
	"github.com/janhq/dm-server/internal/infrastructure/mongostore"
)

// Stores is the storage backend selected by STORAGE_DRIVER.
type Stores struct {
	Driver        string
	Users         user.Repository
	Conversations conversation.Repository
	Messages      message.Repository
	Purger        conversation.MessagePurger
	Tx            conversation.Transactor

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Stores) Close(ctx context.Context) error {
	return s.close(ctx)
}

// NewMemoryStores wraps an in-process store.
func NewMemoryStores(store *memstore.Store) *Stores {
	messages := store.Messages()
	return &Stores{
		Driver:        config.StorageMemory,
		Users:         store.Users(),
		Conversations: store.Conversations(),
		Messages:      messages,
		Purger:        messages,
		Tx:            store,
		ping:          store.Ping,
		close:         store.Close,
	}
}

// ProvideStores opens the configured backend. Postgres migrations run
// before the repositories are handed out.
func ProvideStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return providePostgres(ctx, cfg, log)
	case config.StorageMongo:
		store, err := mongostore.Connect(ctx, mongostore.Config{
			URI:             cfg.MongoURI,
			Database:        cfg.MongoDatabase,
			UseTransactions: cfg.MongoUseTransactions,
			MaxPoolSize:     uint64(max(cfg.DBMaxOpenConns, 0)),
		}, log)
		if err != nil {
			return nil, err
		}
		messages := store.Messages()
		return &Stores{
			Driver:        config.StorageMongo,
			Users:         store.Users(),
			Conversations: store.Conversations(),
			Messages:      messages,
			Purger:        messages,
			Tx:            store,
			ping:          store.Ping,
			close:         store.Close,
		}, nil
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return NewMemoryStores(memstore.NewStore(log)), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func providePostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}
	db, err := database.Connect(database.Config{
		WriteDSN:    cfg.DatabaseWriteDSN,
		ReadDSN:     cfg.DatabaseReadDSN,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxLifetime: cfg.DBConnMaxLifetime,
		LogLevel:    level,
	}, log)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Running database migrations...")
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Error().Err(err).Msg("Failed to run database migrations")
		_ = database.Close(db)
		return nil, err
	}
	log.Info().Msg("Database migrations completed successfully")

	txdb := transaction.NewDatabase(db)
	messages := messagerepo.NewMessageGormRepository(txdb)
	return &Stores{
		Driver:        config.StoragePostgres,
		Users:         userrepo.NewUserGormRepository(txdb),
		Conversations: conversationrepo.NewConversationGormRepository(txdb),
		Messages:      messages,
		Purger:        messages,
		Tx:            txdb,
		ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		close: func(context.Context) error {
			return database.Close(db)
		},
	}, nil
}

func ProvideUserRepository(s *Stores) user.Repository                 { return s.Users }
func ProvideConversationRepository(s *Stores) conversation.Repository { return s.Conversations }
func ProvideMessageRepository(s *Stores) message.Repository           { return s.Messages }
func ProvideMessagePurger(s *Stores) conversation.MessagePurger       { return s.Purger }
func ProvideMembership(s *Stores) conversation.Membership             { return s.Users }
func ProvideTransactor(s *Stores) conversation.Transactor             { return s.Tx }

func ProvidePasswordHasher(cfg *config.Config) user.PasswordHasher {
	return auth.NewBcryptHasher(cfg.BcryptCost)
}

// ProvideOrphanSweeper returns nil when ORPHAN_SWEEP_SCHEDULE is empty.
func ProvideOrphanSweeper(cfg *config.Config, s *Stores, log zerolog.Logger) *crontab.OrphanSweeper {
	if cfg.OrphanSweepSchedule == "" {
		return nil
	}
	return crontab.NewOrphanSweeper(cfg.OrphanSweepSchedule, s.Messages, s.Users, log)
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	ProvideStores,
	ProvideUserRepository,
	ProvideConversationRepository,
	ProvideMessageRepository,
	ProvideMessagePurger,
	ProvideMembership,
	ProvideTransactor,
	ProvidePasswordHasher,
	auth.NewTokenCodec,
	ProvideOrphanSweeper,
)
