package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/logging"
	authmw "github.com/beatworks/beatotheque/internal/middleware/auth"
	"github.com/beatworks/beatotheque/internal/models"
	"github.com/beatworks/beatotheque/internal/ownership"
	"github.com/beatworks/beatotheque/internal/search"
	"github.com/beatworks/beatotheque/internal/util"
)

type BeatHandler struct {
	DB     *gorm.DB
	Owners *ownership.Resolver
	Index  *search.Index // nil when search is not configured
}

type beatRequest struct {
	Title      string  `json:"title"      validate:"required,max=200"`
	BPM        int     `json:"bpm"        validate:"required,gte=40,lte=300"`
	Style      string  `json:"style"      validate:"required,max=100"`
	Key        string  `json:"key"        validate:"required,max=50"`
	Price      float64 `json:"price"      validate:"gte=0,lte=9999.99"`
	PreviewURL string  `json:"previewUrl" validate:"required,previewurl"`
}

type ownerSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type beatResponse struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	BPM        int          `json:"bpm"`
	Style      string       `json:"style"`
	Key        string       `json:"key"`
	Price      float64      `json:"price"`
	PreviewURL string       `json:"previewUrl"`
	CreatedAt  time.Time    `json:"createdAt"`
	UserID     uuid.UUID    `json:"userId"`
	User       ownerSummary `json:"user"`
}

type beatDetailResponse struct {
	beatResponse
	Licenses []models.License `json:"licenses"`
}

func toBeatResponse(b *models.Beat) beatResponse {
	resp := beatResponse{
		ID:         b.ID,
		Title:      b.Title,
		BPM:        b.BPM,
		Style:      b.Style,
		Key:        b.Key,
		Price:      b.Price,
		PreviewURL: b.PreviewURL,
		CreatedAt:  b.CreatedAt,
		UserID:     b.UserID,
	}
	if b.User != nil {
		resp.User = ownerSummary{ID: b.User.ID, Email: b.User.Email}
	} else {
		resp.User = ownerSummary{ID: b.UserID}
	}
	return resp
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// parseID maps malformed ids to not-found: an id that cannot exist behaves
// like an id that does not exist.
func parseID(c echo.Context, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound(resource + " not found")
	}
	return id, nil
}

func (h *BeatHandler) ListBeats(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, page, limit := util.Calculate(page, limit)

	ctx := c.Request().Context()
	style := strings.ToLower(c.QueryParam("style"))
	filtered := func(q *gorm.DB) *gorm.DB {
		if style != "" {
			return q.Where("LOWER(style) LIKE ?", "%"+style+"%")
		}
		return q
	}

	var total int64
	if err := filtered(h.DB.WithContext(ctx).Model(&models.Beat{})).Count(&total).Error; err != nil {
		return err
	}

	var beats []models.Beat
	if err := filtered(h.DB.WithContext(ctx).Model(&models.Beat{})).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&beats).Error; err != nil {
		return err
	}

	items := make([]beatResponse, 0, len(beats))
	for i := range beats {
		items = append(items, toBeatResponse(&beats[i]))
	}

	return respond(c, http.StatusOK, echo.Map{
		"beats": items,
		"pagination": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": util.TotalPages(total, limit),
		},
	})
}

func (h *BeatHandler) GetBeat(c echo.Context) error {
	id, err := parseID(c, "beat")
	if err != nil {
		return err
	}

	var beat models.Beat
	if err := h.DB.WithContext(c.Request().Context()).
		Preload("User").
		Preload("Licenses").
		First(&beat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("beat not found")
		}
		return err
	}

	detail := beatDetailResponse{beatResponse: toBeatResponse(&beat), Licenses: beat.Licenses}
	if detail.Licenses == nil {
		detail.Licenses = []models.License{}
	}

	return respond(c, http.StatusOK, detail)
}

func (h *BeatHandler) CreateBeat(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	var req beatRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// owner always comes from the session, never from the payload
	beat := models.Beat{
		Title:      req.Title,
		BPM:        req.BPM,
		Style:      req.Style,
		Key:        req.Key,
		Price:      req.Price,
		PreviewURL: req.PreviewURL,
		UserID:     ident.UserID,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&beat).Error; err != nil {
		return err
	}
	beat.User = &models.User{ID: ident.UserID, Email: ident.Email}

	h.indexBeat(c, &beat)

	return respond(c, http.StatusCreated, toBeatResponse(&beat))
}

func (h *BeatHandler) UpdateBeat(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	id, err := parseID(c, "beat")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.Owners.AssertBeatOwner(ctx, id, ident.UserID); err != nil {
		return err
	}

	var req beatRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var beat models.Beat
	if err := h.DB.WithContext(ctx).Preload("User").First(&beat, "id = ?", id).Error; err != nil {
		return err
	}

	beat.Title = req.Title
	beat.BPM = req.BPM
	beat.Style = req.Style
	beat.Key = req.Key
	beat.Price = req.Price
	beat.PreviewURL = req.PreviewURL

	if err := h.DB.WithContext(ctx).Save(&beat).Error; err != nil {
		return err
	}

	h.indexBeat(c, &beat)

	return respond(c, http.StatusOK, toBeatResponse(&beat))
}

func (h *BeatHandler) DeleteBeat(c echo.Context) error {
	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthenticated("not authenticated")
	}

	id, err := parseID(c, "beat")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.Owners.AssertBeatOwner(ctx, id, ident.UserID); err != nil {
		return err
	}

	// licenses go first inside the transaction; the FK cascade remains the
	// storage-level backstop
	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("beat_id = ?", id).Delete(&models.License{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Beat{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	if h.Index != nil {
		if err := h.Index.DeleteBeat(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search deindex failed", "beat_id", id, "error", err)
		}
	}

	return respond(c, http.StatusOK, nil)
}

func (h *BeatHandler) indexBeat(c echo.Context, beat *models.Beat) {
	if h.Index == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Index.IndexBeat(ctx, beat); err != nil {
		logging.FromContext(ctx).Warn("search index failed", "beat_id", beat.ID, "error", err)
	}
}
