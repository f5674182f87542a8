package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/replythread"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/auth"
	"github.com/janhq/dm-server/internal/infrastructure/memstore"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

type fixture struct {
	store         *memstore.Store
	conversations conversation.Service
	svc           message.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	store := memstore.NewStore(log)
	ctx := context.Background()
	for _, u := range []struct{ id, name string }{{"alice", "Alice"}, {"bob", "Bob"}, {"carol", "Carol"}} {
		require.NoError(t, store.Users().Create(ctx, &user.User{ID: u.id, Name: u.name, Email: u.id + "@example.com"}))
	}
	users := user.NewService(store.Users(), auth.NewBcryptHasher(10), auth.RawTokenCodec{}, log)
	conversations := conversation.NewService(store.Conversations(), store.Messages(), store.Users(), store, log)
	return &fixture{
		store:         store,
		conversations: conversations,
		svc:           message.NewService(store.Messages(), conversations, users, log),
	}
}

func (f *fixture) send(t *testing.T, from, to, content string) *message.SendResult {
	t.Helper()
	res, err := f.svc.Send(context.Background(), message.SendInput{SenderID: from, ReceiverID: to, Content: content})
	require.NoError(t, err)
	return res
}

func TestSendOpensConversationOnce(t *testing.T) {
	f := newFixture(t)

	first := f.send(t, "alice", "bob", "hi")
	assert.True(t, first.NewConversation)
	assert.Equal(t, "alice", first.Message.SenderID)
	assert.Equal(t, "bob", first.Message.ReceiverID)
	_, err := uuid.Parse(first.Message.ID)
	assert.NoError(t, err)

	second := f.send(t, "bob", "alice", "hey")
	assert.False(t, second.NewConversation)
	assert.Equal(t, first.Message.ConversationID, second.Message.ConversationID)
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name     string
		in       message.SendInput
		wantType platformerrors.ErrorType
	}{
		{"missing receiver", message.SendInput{SenderID: "alice", Content: "x"}, platformerrors.ErrorTypeValidation},
		{"blank content", message.SendInput{SenderID: "alice", ReceiverID: "bob", Content: "  "}, platformerrors.ErrorTypeValidation},
		{"unknown receiver", message.SendInput{SenderID: "alice", ReceiverID: "zed", Content: "x"}, platformerrors.ErrorTypeNotFound},
		{"self", message.SendInput{SenderID: "alice", ReceiverID: "alice", Content: "x"}, platformerrors.ErrorTypeValidation},
		{"malformed reply id", message.SendInput{SenderID: "alice", ReceiverID: "bob", Content: "x", ReplyToMessageID: "nope"}, platformerrors.ErrorTypeValidation},
		{"unknown reply target", message.SendInput{SenderID: "alice", ReceiverID: "bob", Content: "x", ReplyToMessageID: uuid.NewString()}, platformerrors.ErrorTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Send(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestSendToUnknownReceiverNamesReceiver(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), message.SendInput{SenderID: "alice", ReceiverID: "zed", Content: "hi"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), message.ReceiverNotFound)
}

func TestSendReplyQuotesTarget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	original := f.send(t, "alice", "bob", "lunch at noon?")
	res, err := f.svc.Send(ctx, message.SendInput{
		SenderID:         "bob",
		ReceiverID:       "alice",
		Content:          "sure",
		ReplyToMessageID: original.Message.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, original.Message.ID, res.Message.ReplyToMessageID)

	thread := replythread.Decode(res.Message.Content)
	assert.Equal(t, "lunch at noon?", thread.Excerpt)
	assert.Equal(t, "sure", thread.Body)

	// Replying to a reply quotes only its body.
	nested, err := f.svc.Send(ctx, message.SendInput{
		SenderID: "alice", ReceiverID: "bob", Content: "great", ReplyToMessageID: res.Message.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "sure", replythread.Decode(nested.Message.Content).Excerpt)
}

func TestSendReplyKeepsPreEncodedContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	original := f.send(t, "alice", "bob", "question")
	encoded, err := replythread.Encode("question", "answer")
	require.NoError(t, err)

	res, err := f.svc.Send(ctx, message.SendInput{
		SenderID: "bob", ReceiverID: "alice", Content: encoded, ReplyToMessageID: original.Message.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, encoded, res.Message.Content)
}

func TestSendReplyAcrossConversationsFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other := f.send(t, "alice", "carol", "private")
	_, err := f.svc.Send(ctx, message.SendInput{
		SenderID: "alice", ReceiverID: "bob", Content: "fwd", ReplyToMessageID: other.Message.ID,
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestListBetweenIsChronologicalBothWays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.send(t, "alice", "bob", "1")
	f.send(t, "bob", "alice", "2")
	f.send(t, "alice", "carol", "elsewhere")
	f.send(t, "alice", "bob", "3")

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		msgs, err := f.svc.ListBetween(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, []string{"1", "2", "3"}, []string{msgs[0].Content, msgs[1].Content, msgs[2].Content})
	}

	_, err := f.svc.ListBetween(ctx, "alice", "")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestListByConversationExpandsSenders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.send(t, "alice", "bob", "hi")
	f.send(t, "bob", "alice", "hey")

	msgs, err := f.svc.ListByConversation(ctx, first.Message.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Alice", msgs[0].Sender.Name)
	assert.Equal(t, "Bob", msgs[1].Sender.Name)

	empty, err := f.svc.ListByConversation(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	m := f.send(t, "alice", "bob", "oops").Message

	err := f.svc.DeleteOne(ctx, "not-a-uuid", "alice", false)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	err = f.svc.DeleteOne(ctx, m.ID, "bob", true)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))

	require.NoError(t, f.svc.DeleteOne(ctx, m.ID, "alice", true))

	err = f.svc.DeleteOne(ctx, m.ID, "alice", false)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestDeleteOneWithoutOwnerCheck(t *testing.T) {
	f := newFixture(t)
	m := f.send(t, "alice", "bob", "gone").Message

	require.NoError(t, f.svc.DeleteOne(context.Background(), m.ID, "", false))
}

func TestListPeers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.send(t, "alice", "bob", "a")
	f.send(t, "carol", "alice", "b")
	f.send(t, "bob", "carol", "c")

	peers, err := f.svc.ListPeers(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, peers, 2)
	assert.Equal(t, "Bob", peers[0].Name)
	assert.Equal(t, "Carol", peers[1].Name)
}

func TestSortChronologically(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msgs := []*message.Message{
		{ID: "b", Timestamp: t0},
		{ID: "c", Timestamp: t0.Add(-time.Second)},
		{ID: "a", Timestamp: t0},
	}
	message.SortChronologically(msgs)
	assert.Equal(t, []string{"c", "a", "b"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}
