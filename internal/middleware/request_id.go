package middleware

import (
	"github.com/google/uuid"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/labstack/echo/v4"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id, or mints one, into the request
// context so every log line of the request carries it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := logger.WithTraceID(c.Request().Context(), traceID)
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set(TraceIDHeader, traceID)

			return next(c)
		}
	}
}
