package interfaces

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/infrastructure"
	"github.com/janhq/dm-server/internal/interfaces/httpserver"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/routes"
)

// ProvideHTTPServer builds the server with the selected store as its
// readiness probe.
func ProvideHTTPServer(cfg *config.Config, log zerolog.Logger, routeProvider *routes.Provider, stores *infrastructure.Stores) *httpserver.HTTPServer {
	return httpserver.New(cfg, log, routeProvider, stores)
}

var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	routes.RouteProvider,
	ProvideHTTPServer,
)
