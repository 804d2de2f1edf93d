package api

import "github.com/gin-gonic/gin"

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe (depends on the NBP rate API being reachable).
type HealthHandler struct {
	ratePing func() error // Function to check rate-service connectivity
}

// NewHealthHandler constructs a HealthHandler with the provided ratePing function.
//
// Parameters:
//   - ratePing (func() error): A function used to check if the rate service is
//     reachable. Typically, this is Ping from *rates.Client.
//
// Returns:
//   - *HealthHandler: A new handler instance.
func NewHealthHandler(ratePing func() error) *HealthHandler {
	return &HealthHandler{ratePing: ratePing}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if ratePing succeeds, 503 if the rate
//     service is not reachable.
//
// Parameters:
//   - r (*gin.Engine): The Gin router to register routes on.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness probe (just checks if the service is up)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness probe (checks the upstream rate API)
	r.GET("/readyz", func(c *gin.Context) {
		if h.ratePing != nil && h.ratePing() != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
}
