package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/middlewares"
	v1 "github.com/janhq/dm-server/internal/interfaces/httpserver/routes/v1"
)

// APIPrefix mirrors every route under /api.
const APIPrefix = "/api"

// Provider holds all route providers.
type Provider struct {
	V1 *v1.Routes
}

// NewProvider creates a new route provider.
func NewProvider(cfg *config.Config, handlerProvider *handlers.Provider, codec session.Codec, log zerolog.Logger) *Provider {
	opts := v1.Options{
		Codec:        codec,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		SecureLogout: cfg.CookieSecure || cfg.IsProduction(),
	}
	// A non-positive rate disables login throttling.
	if cfg.LoginRateLimitRPS > 0 {
		opts.LoginLimiter = middlewares.NewIPRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst)
	}
	return &Provider{
		V1: v1.NewRoutes(handlerProvider, opts, log),
	}
}

// Register mounts the routes at the root and under /api.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine)
	p.V1.Register(engine.Group(APIPrefix))
}

var RouteProvider = wire.NewSet(NewProvider)
