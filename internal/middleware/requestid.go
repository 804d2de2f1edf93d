package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the Gin context key under which the per-request UUID is
// stored; RequestLogger reads it from there.
const RequestIDKey = "request_id"

// RequestID is a Gin middleware that tags every incoming request with a
// UUID so a ledger upload can be correlated across the request log, the
// per-row skip warnings it produces, and the client that submitted it.
//
// Behavior:
//   - Generates a new UUID (v4) per request.
//   - Stores it in the Gin context under RequestIDKey.
//   - Echoes it to the client as the X-Request-ID response header.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
//
// Returns:
//   - gin.HandlerFunc: the middleware function.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()

		// Downstream middlewares and handlers read it from the context.
		c.Set(RequestIDKey, id)

		// Clients quote this when reporting a failed upload.
		c.Writer.Header().Set("X-Request-ID", id)

		c.Next()
	}
}
