package middleware

import (
	"log/slog"

	deliverycontext "sikre/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextMiddleware assigns every request an id and a request-scoped logger,
// both reachable from the standard context so lower layers can log with the
// request id without knowing about echo.
type ContextMiddleware struct {
	logger *slog.Logger
}

// NewContextMiddleware creates a new context middleware.
func NewContextMiddleware(logger *slog.Logger) *ContextMiddleware {
	return &ContextMiddleware{logger: logger}
}

// Handle propagates or generates the request id and installs the scoped logger.
func (m *ContextMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		scoped := m.logger.With(slog.String("requestID", requestID))

		ctx := c.Request().Context()
		ctx = deliverycontext.WithRequestID(ctx, requestID)
		ctx = deliverycontext.WithLogger(ctx, scoped)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
