package dmclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/dm-server/internal/domain/replythread"
)

// fakeAPI is an in-memory MessageAPI for one conversation.
type fakeAPI struct {
	mu       sync.Mutex
	messages []Message
	seq      int
	failList bool
	cleared  []string
}

func (f *fakeAPI) Messages(ctx context.Context, peerID string) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New("offline")
	}
	return append([]Message(nil), f.messages...), nil
}

func (f *fakeAPI) Send(ctx context.Context, req SendRequest) (*Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	m := Message{
		ID:               fmt.Sprintf("m%02d", f.seq),
		Sender:           "me",
		Receiver:         req.Receiver,
		Content:          req.Content,
		ConversationID:   "conv",
		ReplyToMessageID: req.ReplyToMessageID,
		Timestamp:        time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC),
	}
	f.messages = append(f.messages, m)
	return &m, nil
}

func (f *fakeAPI) DeleteMessage(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.messages {
		if m.ID == messageID {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Message: "message not found"}
}

func (f *fakeAPI) ClearConversation(ctx context.Context, conversationID, otherUserID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.messages))
	f.messages = nil
	f.cleared = append(f.cleared, conversationID+"/"+otherUserID)
	return n, nil
}

func (f *fakeAPI) inject(id, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, Message{
		ID: id, Sender: "peer", Receiver: "me", Content: content, ConversationID: "conv",
		Timestamp: time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC),
	})
}

func TestPollerSendReplyAndDelete(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	p := NewPoller(api, "peer")

	first, err := p.Send(ctx, "hello", nil)
	require.NoError(t, err)
	assert.False(t, first.IsReply())

	reply, err := p.Send(ctx, "again", &first)
	require.NoError(t, err)
	assert.True(t, reply.IsReply())
	assert.Equal(t, "hello", reply.Excerpt)
	assert.Equal(t, "again", reply.Body)
	assert.Equal(t, first.ID, reply.ReplyToMessageID)
	assert.True(t, replythread.IsEncoded(api.messages[1].Content))

	require.Len(t, p.Messages(), 2)

	require.NoError(t, p.Delete(ctx, first.ID))
	msgs := p.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, reply.ID, msgs[0].ID)

	assert.Error(t, p.Delete(ctx, "missing"))
	assert.Len(t, p.Messages(), 1)
}

func TestPollerRefreshReportsDiff(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}

	var diffs []Diff
	p := NewPoller(api, "peer", WithOnChange(func(d Diff, _ []DecodedMessage) {
		diffs = append(diffs, d)
	}))

	api.inject("p1", "hi")
	require.NoError(t, p.Refresh(ctx))
	require.NoError(t, p.Refresh(ctx))
	require.Len(t, diffs, 1)
	assert.Equal(t, []string{"p1"}, diffs[0].Added)

	api.failList = true
	assert.Error(t, p.Refresh(ctx))
	assert.Len(t, p.Messages(), 1)
}

func TestPollerClear(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	p := NewPoller(api, "peer")

	require.NoError(t, p.Clear(ctx))
	assert.Empty(t, api.cleared)

	_, err := p.Send(ctx, "x", nil)
	require.NoError(t, err)
	require.NoError(t, p.Clear(ctx))
	assert.Equal(t, []string{"conv/peer"}, api.cleared)
	assert.Empty(t, p.Messages())
}

func TestPollerLoop(t *testing.T) {
	api := &fakeAPI{}
	changed := make(chan Diff, 4)
	p := NewPoller(api, "peer",
		WithInterval(10*time.Millisecond),
		WithOnChange(func(d Diff, _ []DecodedMessage) { changed <- d }),
	)
	api.inject("p1", "first")

	p.Start(context.Background())
	defer p.Stop()

	select {
	case d := <-changed:
		assert.Equal(t, []string{"p1"}, d.Added)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial refresh")
	}

	api.inject("p2", "second")
	select {
	case d := <-changed:
		assert.Equal(t, []string{"p2"}, d.Added)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh after new message")
	}

	p.Stop()
	p.Stop()
}
