package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// respond writes the success envelope shared by every endpoint.
func respond(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, echo.Map{
		"success": true,
		"data":    data,
	})
}

func CreateCookie(name string, value string, path string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
