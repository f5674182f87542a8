// @title           DM Server API
// @version         1.0
// @description     Direct messaging between registered users: accounts, cookie sessions,
// @description     two-party conversations and reply threads.

// @contact.name   Jan Team
// @contact.url    https://github.com/janhq/dm-server

// @host      localhost:8090
// @BasePath  /

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/domain/conversation"
	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure"
	"github.com/janhq/dm-server/internal/infrastructure/auth"
	"github.com/janhq/dm-server/internal/infrastructure/crontab"
	"github.com/janhq/dm-server/internal/infrastructure/logger"
	"github.com/janhq/dm-server/internal/infrastructure/observability"
	"github.com/janhq/dm-server/internal/interfaces/httpserver"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/routes"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	sweeper    *crontab.OrphanSweeper
	stores     *infrastructure.Stores
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, sweeper *crontab.OrphanSweeper, stores *infrastructure.Stores, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		sweeper:    sweeper,
		stores:     stores,
		log:        log,
	}
}

// Start runs the HTTP server and the orphan sweep until ctx is cancelled or
// one of them fails.
func (a *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	if a.sweeper != nil {
		eg.Go(func() error {
			return a.sweeper.Run(ctx)
		})
	}
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log, observability.Setup)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("application exited cleanly")
}

type telemetrySetup func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (observability.Shutdown, error)

// run wires the application and blocks until ctx ends. Every resource opened
// here is released before it returns, including on startup failures.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, setupTelemetry telemetrySetup) error {
	shutdownTelemetry, err := setupTelemetry(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	stores, err := infrastructure.ProvideStores(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	codec := auth.NewTokenCodec(cfg)
	userService := user.NewService(stores.Users, infrastructure.ProvidePasswordHasher(cfg), codec, log)
	conversationService := conversation.NewService(stores.Conversations, stores.Purger, stores.Users, stores.Tx, log)
	messageService := message.NewService(stores.Messages, conversationService, userService, log)

	handlerProvider := handlers.NewProviderFromServices(cfg, userService, conversationService, messageService)
	routeProvider := routes.NewProvider(cfg, handlerProvider, codec, log)
	httpServer := httpserver.New(cfg, log, routeProvider, stores)

	app := NewApplication(httpServer, infrastructure.ProvideOrphanSweeper(cfg, stores, log), stores, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("storage", cfg.StorageDriver).
		Bool("signed_sessions", cfg.SignedSessions()).
		Msg("starting application")

	return app.Start(ctx)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
