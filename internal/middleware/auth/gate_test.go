package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/token"
)

func newGuard() *Middleware {
	return &Middleware{Tokens: token.NewService([]byte("test-secret"), time.Hour)}
}

func doGate(t *testing.T, guard *Middleware, path string, cookie *http.Cookie) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return rec, guard.Gate(next)(c)
}

func TestGateRedirectsUnauthenticatedFromProtected(t *testing.T) {
	guard := newGuard()

	rec, err := doGate(t, guard, "/dashboard/beats/new", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login?from=%2Fdashboard%2Fbeats%2Fnew", rec.Header().Get(echo.HeaderLocation))
}

func TestGateRedirectsAuthenticatedFromAuthOnly(t *testing.T) {
	guard := newGuard()
	signed, err := guard.Tokens.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	for _, path := range []string{"/login", "/register"} {
		rec, err := doGate(t, guard, path, &http.Cookie{Name: CookieName, Value: signed})
		require.NoError(t, err)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGatePassesThrough(t *testing.T) {
	guard := newGuard()
	signed, err := guard.Tokens.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	// unauthenticated on a public path
	rec, err := doGate(t, guard, "/beats", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	// unauthenticated on an auth-only path
	rec, err = doGate(t, guard, "/login", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	// authenticated on a protected path
	rec, err = doGate(t, guard, "/dashboard", &http.Cookie{Name: CookieName, Value: signed})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGateIgnoresInvalidCookie(t *testing.T) {
	guard := newGuard()

	rec, err := doGate(t, guard, "/dashboard", &http.Cookie{Name: CookieName, Value: "garbage"})
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login?from=%2Fdashboard", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireLoginSetsIdentity(t *testing.T) {
	guard := newGuard()
	userID := uuid.New()
	signed, err := guard.Tokens.Issue(userID, "a@x.com")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *token.Identity
	next := func(c echo.Context) error {
		ident, ok := CurrentIdentity(c)
		require.True(t, ok)
		got = ident
		return nil
	}
	require.NoError(t, guard.RequireLogin(next)(c))
	require.Equal(t, userID, got.UserID)
	require.Equal(t, "a@x.com", got.Email)
}

func TestRequireLoginRejects(t *testing.T) {
	guard := newGuard()

	cases := map[string]*http.Cookie{
		"no cookie":      nil,
		"invalid token":  {Name: CookieName, Value: "garbage"},
		"foreign cookie": {Name: "other", Value: "x"},
	}

	for name, ck := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if ck != nil {
				req.AddCookie(ck)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := guard.RequireLogin(func(c echo.Context) error { return nil })(c)
			e2, ok := apperr.As(err)
			require.True(t, ok)
			require.Equal(t, http.StatusUnauthorized, e2.Code)
		})
	}
}
