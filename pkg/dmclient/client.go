// Package dmclient is a Go client for dm-server, with a poller that keeps
// one conversation in sync.
package dmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/janhq/dm-server/internal/domain/session"
)

const DefaultTimeout = 10 * time.Second

// Client talks to dm-server over HTTP. The session cookie lives in the
// client's cookie jar.
type Client struct {
	http    *resty.Client
	baseURL *url.URL
	jar     http.CookieJar
	log     zerolog.Logger
}

type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithLogger logs every request at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithSessionToken restores a previously issued session.
func WithSessionToken(token string) Option {
	return func(c *Client) {
		c.SetSessionToken(token)
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		http:    resty.New(),
		baseURL: u,
		jar:     jar,
		log:     zerolog.Nop(),
	}
	c.http.SetBaseURL(u.String())
	c.http.SetCookieJar(jar)
	c.http.SetTimeout(DefaultTimeout)
	c.http.SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	c.addLogging()
	return c, nil
}

func (c *Client) addLogging() {
	c.http.AddResponseMiddleware(func(_ *resty.Client, r *resty.Response) error {
		event := c.log.Debug().
			Int("status", r.StatusCode()).
			Dur("latency", r.Duration())
		if raw := r.Request.RawRequest; raw != nil {
			event = event.Str("method", raw.Method).Str("path", raw.URL.Path)
		}
		event.Msg("dm-server request")
		return nil
	})
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// SessionToken returns the current session cookie value, or "".
func (c *Client) SessionToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == session.CookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken installs token as the session cookie.
func (c *Client) SetSessionToken(token string) {
	if token == "" {
		return
	}
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  session.CookieName,
		Value: token,
		Path:  "/",
	}})
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var out authResponse
	if err := c.do(ctx, c.http.R().SetBody(req), http.MethodPost, "/register", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login authenticates and keeps the session cookie for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, c.http.R().SetBody(body), http.MethodPost, "/login", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, c.http.R(), http.MethodPost, "/logout", nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, c.http.R(), http.MethodGet, "/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchUsers(ctx context.Context, term string) ([]User, error) {
	var out []User
	req := c.http.R()
	if term != "" {
		req.SetQueryParam("search", term)
	}
	if err := c.do(ctx, req, http.MethodGet, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Conversations lists the users the caller has exchanged messages with.
func (c *Client) Conversations(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, c.http.R(), http.MethodGet, "/conversations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteConversation removes the conversation and returns how many messages
// went with it.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) (int64, error) {
	var out deleteConversationResponse
	req := c.http.R().SetQueryParam("conversationId", conversationID)
	if err := c.do(ctx, req, http.MethodDelete, "/conversations", &out); err != nil {
		return 0, err
	}
	return out.MessagesDeleted, nil
}

// Messages returns the messages exchanged with peerID, oldest first.
func (c *Client) Messages(ctx context.Context, peerID string) ([]Message, error) {
	var out []Message
	req := c.http.R().SetQueryParam("receiver", peerID)
	if err := c.do(ctx, req, http.MethodGet, "/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ConversationMessages(ctx context.Context, conversationID string) ([]ConversationMessage, error) {
	var out []ConversationMessage
	path := "/messages/" + url.PathEscape(conversationID)
	if err := c.do(ctx, c.http.R(), http.MethodGet, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Send(ctx context.Context, req SendRequest) (*Message, error) {
	var out Message
	if err := c.do(ctx, c.http.R().SetBody(req), http.MethodPost, "/messages", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearConversation deletes every message of the conversation and keeps it.
func (c *Client) ClearConversation(ctx context.Context, conversationID, otherUserID string) (int64, error) {
	var out clearConversationResponse
	req := c.http.R().
		SetQueryParam("conversationId", conversationID).
		SetQueryParam("otherUserId", otherUserID)
	if err := c.do(ctx, req, http.MethodPatch, "/delete", &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	req := c.http.R().SetQueryParam("messageId", messageID)
	return c.do(ctx, req, http.MethodDelete, "/delete/chat", nil)
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string, out any) error {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	body := resp.Bytes()
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
