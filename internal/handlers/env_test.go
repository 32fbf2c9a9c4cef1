package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/beatworks/beatotheque/internal/hash"
	authmw "github.com/beatworks/beatotheque/internal/middleware/auth"
	"github.com/beatworks/beatotheque/internal/models"
	"github.com/beatworks/beatotheque/internal/ownership"
	"github.com/beatworks/beatotheque/internal/token"
	"github.com/beatworks/beatotheque/internal/validate"
)

type testEnv struct {
	E        *echo.Echo
	DB       *gorm.DB
	Tokens   *token.Service
	Guard    *authmw.Middleware
	Auth     *AuthHandler
	Beats    *BeatHandler
	Licenses *LicenseHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Beat{}, &models.License{}))

	e := echo.New()
	e.Validator = validate.New()

	tokens := token.NewService([]byte("test-secret"), time.Hour)
	owners := &ownership.Resolver{DB: db}

	return &testEnv{
		E:        e,
		DB:       db,
		Tokens:   tokens,
		Guard:    &authmw.Middleware{Tokens: tokens},
		Auth:     &AuthHandler{DB: db, Tokens: tokens},
		Beats:    &BeatHandler{DB: db, Owners: owners},
		Licenses: &LicenseHandler{DB: db, Owners: owners},
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, target string, payload interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func (env *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()

	passwordHash, err := hash.HashPassword("password1")
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: passwordHash}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) asUser(c echo.Context, user *models.User) {
	authmw.SetIdentity(c, &token.Identity{UserID: user.ID, Email: user.Email})
}

func (env *testEnv) createBeat(t *testing.T, owner *models.User, title, style string, price float64) *models.Beat {
	t.Helper()

	beat := models.Beat{
		Title:      title,
		BPM:        140,
		Style:      style,
		Key:        "C minor",
		Price:      price,
		PreviewURL: "/uploads/" + title + ".mp3",
		UserID:     owner.ID,
	}
	require.NoError(t, env.DB.Create(&beat).Error)
	return &beat
}

func (env *testEnv) createLicense(t *testing.T, beat *models.Beat, name string, price float64) *models.License {
	t.Helper()

	license := models.License{
		BeatID:     beat.ID,
		Name:       name,
		Price:      price,
		RightsText: "Non-exclusive use on one commercial release.",
	}
	require.NoError(t, env.DB.Create(&license).Error)
	return &license
}

// envelope decodes the success envelope's data into out.
func envelope(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var wrapper struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapper))
	require.True(t, wrapper.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(wrapper.Data, out))
	}
}
