package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emigdal/plnpulse/internal/middleware"
)

// requestTimeout bounds one upload end to end. A single ledger can require
// many NBP round trips (one per unpublished candidate date per row), so this
// is far looser than a typical JSON API timeout.
const requestTimeout = 60 * time.Second

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, RateLimiter).
//   - Adds request timeout handling.
//   - Configures the ledger-parsing route (POST /parsing).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Routes ───────────────────────────────────
	router.POST("/parsing", handler.ParseLedger)

	return router
}
