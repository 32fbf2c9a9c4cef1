package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/blob"
)

const maxUploadSize = 50 << 20 // 50MB

var allowedAudioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/wave":  true,
	"audio/x-wav": true,
}

var (
	audioExt   = regexp.MustCompile(`(?i)\.(mp3|wav)$`)
	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

type UploadHandler struct {
	Blobs *blob.Store // nil when no bucket is configured
}

func (h *UploadHandler) Upload(c echo.Context) error {
	if h.Blobs == nil {
		return apperr.Unavailable("upload storage not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.BadRequest("no file provided")
	}

	if fileHeader.Size > maxUploadSize {
		return apperr.BadRequest("file too large (max 50MB)")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedAudioTypes[contentType] && !audioExt.MatchString(fileHeader.Filename) {
		return apperr.BadRequest("unsupported format, use MP3 or WAV")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	safeName := unsafeName.ReplaceAllString(strings.ToLower(fileHeader.Filename), "_")
	key := fmt.Sprintf("beats/%d-%s", time.Now().UnixMilli(), safeName)

	url, err := h.Blobs.Put(c.Request().Context(), key, contentType, src)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, echo.Map{"url": url})
}
