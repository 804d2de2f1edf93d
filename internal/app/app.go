package app

import (
	"github.com/gin-gonic/gin"

	"github.com/emigdal/plnpulse/config"
	"github.com/emigdal/plnpulse/internal/api"
	"github.com/emigdal/plnpulse/internal/rates"
	"github.com/emigdal/plnpulse/internal/service"
)

// rateClientCtor is an indirection for creating the NBP client; tests can
// override this to avoid touching the network.
var rateClientCtor = func(cfg config.NBPConfig) *rates.Client {
	return rates.NewClient(cfg)
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the NBP rate client and the backward-walk resolver on top of it.
//   - Initializes the report service (business logic).
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to release resources.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// NBP client and rate resolver
	client := rateClientCtor(cfg.NBP)
	resolver := rates.NewResolver(client, cfg.NBP.MaxLookbackDays)

	// Initialize service layer (business logic)
	svc := service.NewReportService(resolver)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(client.Ping)
	healthHandler.Register(router)

	// Nothing holds connections open between requests; cleanup is a no-op
	// hook kept for symmetry with the server shutdown path.
	cleanup := func() {}

	return router, cleanup, nil
}
