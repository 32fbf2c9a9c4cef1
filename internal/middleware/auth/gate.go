package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	protectedPrefixes = []string{"/dashboard"}
	authOnlyPrefixes  = []string{"/login", "/register"}
)

// Gate is the pre-handler route filter for page paths: unauthenticated
// visitors are bounced off protected pages to the login page (keeping the
// original path as ?from=), and authenticated visitors are bounced off the
// login/register pages to the dashboard. Every other request passes through
// untouched.
func (m *Middleware) Gate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		authenticated := false
		if cookie, err := c.Cookie(CookieName); err == nil {
			if _, err := m.Tokens.Verify(cookie.Value); err == nil {
				authenticated = true
			}
		}

		if hasPrefix(path, protectedPrefixes) && !authenticated {
			return c.Redirect(http.StatusFound, "/login?from="+url.QueryEscape(path))
		}
		if hasPrefix(path, authOnlyPrefixes) && authenticated {
			return c.Redirect(http.StatusFound, "/dashboard")
		}

		return next(c)
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
