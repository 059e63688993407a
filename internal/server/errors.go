package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/accounttabs/internal/logging"
)

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace and hides their details from the client.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code >= http.StatusInternalServerError {
				logging.FromContext(c.Request().Context()).Error("HTTP error", "status", he.Code, "error", err)
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		logging.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
			"error", err.Error(),
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()),
		)
		e.DefaultHTTPErrorHandler(echo.NewHTTPError(http.StatusInternalServerError), c)
	}
}
