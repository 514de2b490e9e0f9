package server

import (
	"context"
	"net/http"

	"demoforge/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/xid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID contextKey = "request_id"
)

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return xid.New().String()
}

// requestIDMiddleware assigns each request an ID and propagates it through
// the request context and the X-Request-ID response header.
func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = generateRequestID()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			ctx := context.WithValue(c.Request().Context(), ContextKeyRequestID, reqID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ErrorHandler is a custom error handler for the server
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	reqID := GetRequestID(c.Request().Context())
	logger.WithFields(logger.Fields{
		"request_id": reqID,
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"remote":     c.RealIP(),
		"status":     code,
	}).WithError(err).Error("Request error")

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			c.NoContent(code)
		} else {
			c.JSON(code, ErrorResponse{
				Error:     message,
				RequestID: reqID,
			})
		}
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}
