//go:build integration

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/database"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/conversationrepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/messagerepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/repository/userrepo"
	"github.com/janhq/dm-server/internal/infrastructure/database/transaction"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dm"),
		postgres.WithUsername("dm"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		os.Exit(0)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testDB, err = database.Connect(database.Config{
		WriteDSN:    dsn,
		MaxIdle:     2,
		MaxOpen:     5,
		MaxLifetime: time.Minute,
		LogLevel:    gormlogger.Silent,
	}, zerolog.Nop())
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	if err := database.AutoMigrate(ctx, testDB, zerolog.Nop()); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	code := m.Run()

	_ = database.Close(testDB)
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

type repos struct {
	tx            *transaction.Database
	users         *userrepo.UserGormRepository
	conversations *conversationrepo.ConversationGormRepository
	messages      *messagerepo.MessageGormRepository
}

func newRepos(t *testing.T) *repos {
	t.Helper()
	require.NoError(t, testDB.Exec("TRUNCATE dm.messages, dm.user_conversations, dm.conversations, dm.users").Error)
	tx := transaction.NewDatabase(testDB)
	return &repos{
		tx:            tx,
		users:         userrepo.NewUserGormRepository(tx),
		conversations: conversationrepo.NewConversationGormRepository(tx),
		messages:      messagerepo.NewMessageGormRepository(tx),
	}
}

func (r *repos) createUser(t *testing.T, name string) *user.User {
	t.Helper()
	u := &user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func (r *repos) createConversation(t *testing.T, a, b string) *conversation.Conversation {
	t.Helper()
	low, high := conversation.PairKey(a, b)
	c := &conversation.Conversation{ID: uuid.NewString(), Participants: [2]string{low, high}, CreatedAt: time.Now().UTC()}
	require.NoError(t, r.conversations.Create(context.Background(), c))
	require.NoError(t, r.users.AddConversation(context.Background(), []string{a, b}, c.ID))
	return c
}

func (r *repos) createMessage(t *testing.T, conv *conversation.Conversation, from, to, content string, at time.Time) *message.Message {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	m := &message.Message{ID: id.String(), ConversationID: conv.ID, SenderID: from, ReceiverID: to, Content: content, Timestamp: at}
	require.NoError(t, r.messages.Create(context.Background(), m))
	return m
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	alice := r.createUser(t, "alice")
	r.createUser(t, "bob")

	dup := &user.User{ID: uuid.NewString(), Name: "x", Email: alice.Email, PasswordHash: "h"}
	assert.ErrorIs(t, r.users.Create(ctx, dup), user.ErrDuplicateEmail)

	got, err := r.users.FindByEmail(ctx, alice.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	missing, err := r.users.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, err := r.users.Search(ctx, "BO", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bob", found[0].Name)

	found, err = r.users.Search(ctx, "example", alice.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = r.users.Search(ctx, "%", "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestConversationPairIsUnique(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	alice := r.createUser(t, "alice")
	bob := r.createUser(t, "bob")

	conv := r.createConversation(t, alice.ID, bob.ID)

	low, high := conversation.PairKey(bob.ID, alice.ID)
	err := r.conversations.Create(ctx, &conversation.Conversation{ID: uuid.NewString(), Participants: [2]string{low, high}})
	assert.ErrorIs(t, err, conversation.ErrDuplicatePair)

	byPair, err := r.conversations.FindByPair(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, byPair)
	assert.Equal(t, conv.ID, byPair.ID)

	u, err := r.users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{conv.ID}, u.Conversations)
}

func TestMessageRepository(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	alice := r.createUser(t, "alice")
	bob := r.createUser(t, "bob")
	carol := r.createUser(t, "carol")
	ab := r.createConversation(t, alice.ID, bob.ID)
	ac := r.createConversation(t, alice.ID, carol.ID)

	t0 := time.Now().UTC().Truncate(time.Millisecond)
	first := r.createMessage(t, ab, alice.ID, bob.ID, "one", t0)
	r.createMessage(t, ab, bob.ID, alice.ID, "two", t0.Add(time.Second))
	r.createMessage(t, ac, carol.ID, alice.ID, "other", t0)

	between, err := r.messages.ListBetween(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "one", between[0].Content)
	assert.Equal(t, "two", between[1].Content)

	peers, err := r.messages.PeerIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bob.ID, carol.ID}, peers)

	ok, err := r.messages.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.messages.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := r.messages.DeleteByConversation(ctx, ab.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCascadeDeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	alice := r.createUser(t, "alice")
	bob := r.createUser(t, "bob")
	conv := r.createConversation(t, alice.ID, bob.ID)
	r.createMessage(t, conv, alice.ID, bob.ID, "hi", time.Now().UTC())

	svc := conversation.NewService(r.conversations, r.messages, r.users, r.tx, zerolog.Nop())
	result, err := svc.Delete(ctx, conv.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.MessagesDeleted)

	gone, err := r.conversations.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Leave an orphan behind, as an interrupted delete on another backend would.
	other := r.createConversation(t, alice.ID, bob.ID)
	r.createMessage(t, other, bob.ID, alice.ID, "stale", time.Now().UTC())
	require.NoError(t, r.conversations.Delete(ctx, other.ID))

	removed, err := r.messages.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	pruned, err := r.users.PruneConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)
}
