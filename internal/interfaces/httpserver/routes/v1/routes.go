package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/middlewares"
)

// Options carries the session and cookie settings the routes need.
type Options struct {
	Codec        session.Codec
	LoginLimiter *middlewares.IPRateLimiter
	SessionTTL   time.Duration
	CookieSecure bool
	// SecureLogout marks the expired logout cookie Secure.
	SecureLogout bool
}

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
	opts     Options
	log      zerolog.Logger
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider, opts Options, log zerolog.Logger) *Routes {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	return &Routes{
		handlers: handlerProvider,
		opts:     opts,
		log:      log,
	}
}

// Register mounts every endpoint on router.
func (r *Routes) Register(router gin.IRouter) {
	gate := middlewares.SessionGate(r.opts.Codec, r.log)
	optional := middlewares.OptionalSession(r.opts.Codec)

	RegisterAuthRoutes(router, r.handlers.Auth, r.opts, r.log, gate, optional)
	RegisterConversationRoutes(router, r.handlers.Conversation, gate)

	deleteGate := optional
	if r.handlers.Message.RequireSender() {
		deleteGate = gate
	}
	RegisterMessageRoutes(router, r.handlers.Message, gate, deleteGate)
}
