package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/beatworks/beatotheque/internal/apperr"
	authmw "github.com/beatworks/beatotheque/internal/middleware/auth"
	"github.com/beatworks/beatotheque/internal/models"
	"github.com/beatworks/beatotheque/internal/ownership"
)

type LicenseHandler struct {
	DB     *gorm.DB
	Owners *ownership.Resolver
}

type licenseRequest struct {
	Name       string  `json:"name"       validate:"required,max=200"`
	Price      float64 `json:"price"      validate:"gte=0"`
	RightsText string  `json:"rightsText" validate:"required,min=10"`
}

// ListByBeat returns a beat's licenses cheapest first.
func (h *LicenseHandler) ListByBeat(c echo.Context) error {
	beatID, err := parseID(c, "beat")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.Owners.BeatOwner(ctx, beatID); err != nil {
		return err
	}

	licenses := make([]models.License, 0)
	if err := h.DB.WithContext(ctx).
		Where("beat_id = ?", beatID).
		Order("price ASC").
		Find(&licenses).Error; err != nil {
		return err
	}

	return respond(c, http.StatusOK, licenses)
}

func (h *LicenseHandler) CreateLicense(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	beatID, err := parseID(c, "beat")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.Owners.AssertBeatOwner(ctx, beatID, ident.UserID); err != nil {
		return err
	}

	var req licenseRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	license := models.License{
		BeatID:     beatID,
		Name:       req.Name,
		Price:      req.Price,
		RightsText: req.RightsText,
	}
	if err := h.DB.WithContext(ctx).Create(&license).Error; err != nil {
		return err
	}

	return respond(c, http.StatusCreated, license)
}

func (h *LicenseHandler) UpdateLicense(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	id, err := parseID(c, "license")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.Owners.AssertLicenseOwner(ctx, id, ident.UserID); err != nil {
		return err
	}

	var req licenseRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var license models.License
	if err := h.DB.WithContext(ctx).First(&license, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("license not found")
		}
		return err
	}

	license.Name = req.Name
	license.Price = req.Price
	license.RightsText = req.RightsText

	if err := h.DB.WithContext(ctx).Save(&license).Error; err != nil {
		return err
	}

	return respond(c, http.StatusOK, license)
}

func (h *LicenseHandler) DeleteLicense(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	id, err := parseID(c, "license")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.Owners.AssertLicenseOwner(ctx, id, ident.UserID); err != nil {
		return err
	}

	if err := h.DB.WithContext(ctx).Delete(&models.License{}, "id = ?", id).Error; err != nil {
		return err
	}

	return respond(c, http.StatusOK, nil)
}
