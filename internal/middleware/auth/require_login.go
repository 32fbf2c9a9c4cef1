package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/token"
)

// CookieName carries the session token on every request.
const CookieName = "beatotheque_token"

const identityKey = "identity"

type Middleware struct {
	Tokens *token.Service
}

// RequireLogin rejects requests without a valid session cookie and stores the
// verified identity on the echo context for the handler.
func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil {
			return apperr.Unauthenticated("not authenticated")
		}

		ident, err := m.Tokens.Verify(cookie.Value)
		if err != nil {
			return apperr.Unauthenticated("not authenticated")
		}

		SetIdentity(c, ident)
		return next(c)
	}
}

func SetIdentity(c echo.Context, ident *token.Identity) {
	c.Set(identityKey, ident)
}

func CurrentIdentity(c echo.Context) (*token.Identity, bool) {
	ident, ok := c.Get(identityKey).(*token.Identity)
	return ident, ok
}
