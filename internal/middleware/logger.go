package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/accounttabs/internal/logging"
)

// Logger injects a request-scoped logger into the request context and logs
// each completed request. It should be placed after the RequestID middleware
// in the chain.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		requestLogger := slog.Default().With("request_id", reqID)

		ctx := logging.WithLogger(c.Request().Context(), requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		requestLogger.Info("Request handled",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
		)
		return nil
	}
}
