package dmclient

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/replythread"
)

const DefaultPollInterval = 3 * time.Second

// MessageAPI is the part of Client the Poller uses.
type MessageAPI interface {
	Messages(ctx context.Context, peerID string) ([]Message, error)
	Send(ctx context.Context, req SendRequest) (*Message, error)
	DeleteMessage(ctx context.Context, messageID string) error
	ClearConversation(ctx context.Context, conversationID, otherUserID string) (int64, error)
}

// ChangeFunc receives the diff of a refresh and the new state.
type ChangeFunc func(diff Diff, messages []DecodedMessage)

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithOnChange(fn ChangeFunc) PollerOption {
	return func(p *Poller) {
		p.onChange = fn
	}
}

func WithPollerLogger(log zerolog.Logger) PollerOption {
	return func(p *Poller) {
		p.log = log
	}
}

// Poller mirrors the conversation with one peer. A background loop replaces
// the local state with the server's on every tick; Send, Delete and Clear
// update it immediately.
type Poller struct {
	api      MessageAPI
	peerID   string
	interval time.Duration
	onChange ChangeFunc
	log      zerolog.Logger

	mu       sync.Mutex
	messages []DecodedMessage

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewPoller(api MessageAPI, peerID string, opts ...PollerOption) *Poller {
	p := &Poller{
		api:      api,
		peerID:   peerID,
		interval: DefaultPollInterval,
		log:      zerolog.Nop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("component", "dm-poller").Str("peer", peerID).Logger()
	return p
}

// Start fetches once and then every interval until ctx ends or Stop is
// called. Only the first call has an effect.
func (p *Poller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.run(ctx)
	})
}

// Stop ends the loop and waits for it. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Refresh fetches the conversation now. A failed fetch leaves the state
// untouched.
func (p *Poller) Refresh(ctx context.Context) error {
	msgs, err := p.api.Messages(ctx, p.peerID)
	if err != nil {
		return err
	}
	next := DecodeAll(msgs)

	p.mu.Lock()
	diff := Reconcile(p.messages, next)
	p.messages = next
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	if !diff.Empty() && p.onChange != nil {
		p.onChange(diff, snapshot)
	}
	return nil
}

func (p *Poller) refresh(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		p.log.Warn().Err(err).Msg("failed to refresh messages")
	}
}

// Messages returns a copy of the local state.
func (p *Poller) Messages() []DecodedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Poller) snapshotLocked() []DecodedMessage {
	out := make([]DecodedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

// Send posts content to the peer. When replyTo is set the quoted body is
// embedded in the content and the id travels as replyToMessageId.
func (p *Poller) Send(ctx context.Context, content string, replyTo *DecodedMessage) (DecodedMessage, error) {
	req := SendRequest{Receiver: p.peerID, Content: content}
	if replyTo != nil {
		encoded, err := replythread.Encode(replyTo.Body, content)
		if err != nil {
			return DecodedMessage{}, err
		}
		req.Content = encoded
		req.ReplyToMessageID = replyTo.ID
	}

	msg, err := p.api.Send(ctx, req)
	if err != nil {
		return DecodedMessage{}, err
	}
	decoded := Decode(*msg)

	p.mu.Lock()
	if !p.hasLocked(decoded.ID) {
		p.messages = append(p.messages, decoded)
		sortMessages(p.messages)
	}
	p.mu.Unlock()
	return decoded, nil
}

// Delete removes a message on the server and then locally.
func (p *Poller) Delete(ctx context.Context, messageID string) error {
	if err := p.api.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.messages[:0]
	for _, m := range p.messages {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	p.messages = kept
	return nil
}

// Clear empties the conversation on the server and locally. It does nothing
// when no messages are known.
func (p *Poller) Clear(ctx context.Context) error {
	p.mu.Lock()
	if len(p.messages) == 0 {
		p.mu.Unlock()
		return nil
	}
	conversationID := p.messages[0].ConversationID
	p.mu.Unlock()

	if _, err := p.api.ClearConversation(ctx, conversationID, p.peerID); err != nil {
		return err
	}

	p.mu.Lock()
	p.messages = nil
	p.mu.Unlock()
	return nil
}

func (p *Poller) hasLocked(id string) bool {
	for _, m := range p.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}
