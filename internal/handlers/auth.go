package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/hash"
	authmw "github.com/beatworks/beatotheque/internal/middleware/auth"
	"github.com/beatworks/beatotheque/internal/models"
	"github.com/beatworks/beatotheque/internal/token"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func publicUser(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return apperr.Conflict("email already in use")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := models.User{Email: req.Email, PasswordHash: passwordHash}
	if err := h.DB.Create(&user).Error; err != nil {
		// unique index is the backstop against concurrent registrations
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("email already in use")
		}
		return err
	}

	signed, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		return err
	}
	c.SetCookie(CreateCookie(authmw.CookieName, signed, "/", h.Tokens.TTL))

	return respond(c, http.StatusCreated, publicUser(&user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// unknown email and wrong password collapse into one message so the
	// endpoint cannot be used to enumerate accounts
	const invalidMsg = "invalid email or password"

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthenticated(invalidMsg)
		}
		return err
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return apperr.Unauthenticated(invalidMsg)
	}

	signed, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		return err
	}
	c.SetCookie(CreateCookie(authmw.CookieName, signed, "/", h.Tokens.TTL))

	return respond(c, http.StatusOK, publicUser(&user))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(DeleteCookie(authmw.CookieName, "/"))
	return respond(c, http.StatusOK, echo.Map{"message": "logged out"})
}

// Me re-reads the profile from the store so the response reflects current
// data, not just the token claims.
func (h *AuthHandler) Me(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", ident.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthenticated("not authenticated")
		}
		return err
	}

	return respond(c, http.StatusOK, publicUser(&user))
}
