package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emigdal/plnpulse/internal/domain/dto"
	"github.com/emigdal/plnpulse/internal/logger"
)

// ErrorHandler converts errors attached to the gin context into the
// standardized JSON error envelope. Handlers that already wrote a response
// are left alone.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError stops the request with the given status and a structured
// error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
