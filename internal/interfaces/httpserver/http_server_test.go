package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/replythread"
	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/auth"
	"github.com/janhq/dm-server/internal/infrastructure/memstore"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/routes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:         "dm-server",
		Environment:         "test",
		StorageDriver:       config.StorageMemory,
		BcryptCost:          10,
		SessionTTL:          time.Hour,
		LoginRateLimitRPS:   100,
		LoginRateLimitBurst: 100,
		CORSAllowedOrigins:  []string{"*"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, pinger Pinger) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	store := memstore.NewStore(log)
	if pinger == nil {
		pinger = store
	}

	codec := auth.RawTokenCodec{}
	users := user.NewService(store.Users(), auth.NewBcryptHasher(cfg.BcryptCost), codec, log)
	conversations := conversation.NewService(store.Conversations(), store.Messages(), store.Users(), store, log)
	messages := message.NewService(store.Messages(), conversations, users, log)

	handlerProvider := handlers.NewProviderFromServices(cfg, users, conversations, messages)
	srv := New(cfg, log, routes.NewProvider(cfg, handlerProvider, codec, log), pinger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newAPIClient(t *testing.T, base string) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: base, http: &http.Client{Jar: jar}}
}

func (c *apiClient) do(method, path string, body any, out any) *http.Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, out), string(raw))
	}
	return resp
}

type userJSON struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authJSON struct {
	Message string   `json:"message"`
	User    userJSON `json:"user"`
}

type messageJSON struct {
	ID               string `json:"_id"`
	Sender           string `json:"sender"`
	Receiver         string `json:"receiver"`
	Content          string `json:"content"`
	ConversationID   string `json:"conversationId"`
	ReplyToMessageID string `json:"replyToMessageId"`
}

type errorJSON struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *apiClient) signUp(name, email string) userJSON {
	c.t.Helper()
	var out authJSON
	resp := c.do(http.MethodPost, "/register", map[string]string{
		"name": name, "email": email, "password": "pw", "cpassword": "pw",
	}, &out)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	assert.Equal(c.t, "User created successfully", out.Message)

	resp = c.do(http.MethodPost, "/login", map[string]string{"email": email, "password": "pw"}, &out)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	return out.User
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

func TestConversationScenario(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	alice := newAPIClient(t, ts.URL)
	bob := newAPIClient(t, ts.URL)

	a := alice.signUp("Alice", "alice@example.com")
	b := bob.signUp("Bob", "bob@example.com")

	var me userJSON
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/me", nil, &me).StatusCode)
	assert.Equal(t, a.ID, me.ID)

	var sent messageJSON
	resp := alice.do(http.MethodPost, "/messages", map[string]string{"receiver": b.ID, "content": "hi bob"}, &sent)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, a.ID, sent.Sender)
	assert.NotEmpty(t, sent.ConversationID)

	var reply messageJSON
	resp = bob.do(http.MethodPost, "/messages", map[string]string{
		"receiver": a.ID, "content": "hello", "replyToMessageId": sent.ID,
	}, &reply)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, sent.ConversationID, reply.ConversationID)
	thread := replythread.Decode(reply.Content)
	assert.Equal(t, "hi bob", thread.Excerpt)
	assert.Equal(t, "hello", thread.Body)

	var list []messageJSON
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/messages?receiver="+b.ID, nil, &list).StatusCode)
	require.Len(t, list, 2)
	assert.Equal(t, sent.ID, list[0].ID)
	assert.Equal(t, reply.ID, list[1].ID)

	var peers []userJSON
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/conversations", nil, &peers).StatusCode)
	require.Len(t, peers, 1)
	assert.Equal(t, a.ID, peers[0].ID)

	var history []struct {
		Sender userJSON `json:"sender"`
	}
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/messages/"+sent.ConversationID, nil, &history).StatusCode)
	require.Len(t, history, 2)
	assert.Equal(t, "Alice", history[0].Sender.Name)

	var found []userJSON
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/users?search=BOB", nil, &found).StatusCode)
	require.Len(t, found, 1)
	assert.Equal(t, b.ID, found[0].ID)

	var cleared struct {
		Deleted int64 `json:"deleted"`
	}
	resp = alice.do(http.MethodPatch, "/delete?conversationId="+sent.ConversationID+"&otherUserId="+b.ID, nil, &cleared)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), cleared.Deleted)

	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/messages?receiver="+b.ID, nil, &list).StatusCode)
	assert.Empty(t, list)

	var deleted struct {
		ConversationID  string `json:"conversationId"`
		MessagesDeleted int64  `json:"messagesDeleted"`
	}
	resp = bob.do(http.MethodDelete, "/conversations?conversationId="+sent.ConversationID, nil, &deleted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sent.ConversationID, deleted.ConversationID)
	assert.Equal(t, int64(0), deleted.MessagesDeleted)

	var logout struct {
		Message string `json:"message"`
	}
	resp = alice.do(http.MethodPost, "/logout", nil, &logout)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out successfully", logout.Message)
	ck := sessionCookie(resp)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.True(t, ck.MaxAge < 0)

	var unauthorized errorJSON
	resp = alice.do(http.MethodGet, "/me", nil, &unauthorized)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized_error", unauthorized.Error.Type)
}

func TestLoginSetsHTTPOnlyCookie(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	c := newAPIClient(t, ts.URL)

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/register", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "pw", "confirmPassword": "pw",
	}, nil).StatusCode)

	resp := c.do(http.MethodPost, "/api/login", map[string]string{"email": "carol@example.com", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ck := sessionCookie(resp)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.NotEmpty(t, ck.Value)
}

func TestRegistrationAndLoginErrors(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	c := newAPIClient(t, ts.URL)
	c.signUp("Dave", "dave@example.com")

	tests := []struct {
		name   string
		path   string
		body   map[string]string
		status int
	}{
		{"duplicate email", "/register", map[string]string{"name": "D", "email": "dave@example.com", "password": "x", "cpassword": "x"}, http.StatusBadRequest},
		{"mismatched confirmation", "/register", map[string]string{"name": "E", "email": "e@example.com", "password": "x", "cpassword": "y"}, http.StatusBadRequest},
		{"invalid email", "/register", map[string]string{"name": "E", "email": "nope", "password": "x", "cpassword": "x"}, http.StatusBadRequest},
		{"unknown user", "/login", map[string]string{"email": "ghost@example.com", "password": "x"}, http.StatusNotFound},
		{"wrong password", "/login", map[string]string{"email": "dave@example.com", "password": "x"}, http.StatusUnauthorized},
		{"missing password", "/login", map[string]string{"email": "dave@example.com"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out errorJSON
			resp := c.do(http.MethodPost, tt.path, tt.body, &out)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, out.Error.Message)
		})
	}
}

func TestMessagesRequireSession(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	c := newAPIClient(t, ts.URL)

	for _, path := range []string{"/messages?receiver=x", "/conversations", "/me"} {
		resp := c.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestSendToUnknownReceiver(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	c := newAPIClient(t, ts.URL)
	c.signUp("Alice", "alice@example.com")

	var out errorJSON
	resp := c.do(http.MethodPost, "/messages", map[string]string{"receiver": "nobody", "content": "hi"}, &out)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found_error", out.Error.Type)
	assert.Equal(t, "receiver not found", out.Error.Message)
}

func TestDeleteMessageOwnership(t *testing.T) {
	cfg := testConfig()
	cfg.MessageDeleteRequireSender = true
	ts := newTestServer(t, cfg, nil)
	alice := newAPIClient(t, ts.URL)
	bob := newAPIClient(t, ts.URL)
	alice.signUp("Alice", "alice@example.com")
	b := bob.signUp("Bob", "bob@example.com")

	var sent messageJSON
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/messages", map[string]string{"receiver": b.ID, "content": "x"}, &sent).StatusCode)

	assert.Equal(t, http.StatusUnauthorized, bob.do(http.MethodDelete, "/delete/chat?messageId="+sent.ID, nil, nil).StatusCode)

	var ok struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusOK, alice.do(http.MethodDelete, "/delete/chat?messageId="+sent.ID, nil, &ok).StatusCode)
	assert.True(t, ok.Success)
	assert.Equal(t, "Message deleted", ok.Message)

	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodDelete, "/delete/chat?messageId="+sent.ID, nil, nil).StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimitRPS = 0.001
	cfg.LoginRateLimitBurst = 2
	ts := newTestServer(t, cfg, nil)
	c := newAPIClient(t, ts.URL)

	body := map[string]string{"email": "ghost@example.com", "password": "x"}
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/login", body, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/login", body, nil).StatusCode)

	resp := c.do(http.MethodPost, "/login", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestOperationalRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	c := newAPIClient(t, ts.URL)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, nil).StatusCode)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz", nil, nil).StatusCode)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/metrics", nil, nil).StatusCode)

	down := newTestServer(t, testConfig(), failingPinger{})
	assert.Equal(t, http.StatusServiceUnavailable, newAPIClient(t, down.URL).do(http.MethodGet, "/readyz", nil, nil).StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	ts := newTestServer(t, cfg, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/messages", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORSWildcardWithholdsCredentials(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	alice := newAPIClient(t, ts.URL)
	alice.signUp("Alice", "alice@example.com")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/me", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := alice.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORSIgnoresUnlistedOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	ts := newTestServer(t, cfg, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/messages", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}
