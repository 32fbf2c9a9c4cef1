// Package ownership resolves who owns a resource before any mutation.
// A beat carries its owner directly; a license inherits the owner of its
// parent beat. Existence is always checked before ownership, so a missing
// resource surfaces as not-found rather than forbidden.
package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/models"
)

type Resolver struct {
	DB *gorm.DB
}

// BeatOwner returns the owning user of a beat.
func (r *Resolver) BeatOwner(ctx context.Context, beatID uuid.UUID) (uuid.UUID, error) {
	var beat models.Beat
	if err := r.DB.WithContext(ctx).Select("id", "user_id").First(&beat, "id = ?", beatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperr.NotFound("beat not found")
		}
		return uuid.Nil, err
	}
	return beat.UserID, nil
}

// LicenseOwner walks license -> parent beat -> owner.
func (r *Resolver) LicenseOwner(ctx context.Context, licenseID uuid.UUID) (uuid.UUID, error) {
	var license models.License
	if err := r.DB.WithContext(ctx).Select("id", "beat_id").First(&license, "id = ?", licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperr.NotFound("license not found")
		}
		return uuid.Nil, err
	}
	return r.BeatOwner(ctx, license.BeatID)
}

func (r *Resolver) AssertBeatOwner(ctx context.Context, beatID, userID uuid.UUID) error {
	ownerID, err := r.BeatOwner(ctx, beatID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return apperr.Forbidden("access denied")
	}
	return nil
}

func (r *Resolver) AssertLicenseOwner(ctx context.Context, licenseID, userID uuid.UUID) error {
	ownerID, err := r.LicenseOwner(ctx, licenseID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return apperr.Forbidden("access denied")
	}
	return nil
}
