package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beatworks/beatotheque/internal/apperr"
)

// ErrorHandler maps tagged application errors to the error envelope. Anything
// untagged is logged and collapsed to a generic 500 so internals never reach
// the client.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if e, ok := apperr.As(err); ok {
			payload := echo.Map{"success": false, "error": e.Message}
			if e.Details != nil {
				payload["details"] = e.Details
			}
			_ = c.JSON(e.Code, payload)
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, echo.Map{"success": false, "error": msg})
			return
		}

		log.Error("unhandled error", "method", c.Request().Method, "path", c.Path(), "error", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal server error"})
	}
}
