package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beatworks/beatotheque/internal/apperr"
	"github.com/beatworks/beatotheque/internal/search"
	"github.com/beatworks/beatotheque/internal/util"
)

type SearchHandler struct {
	Index *search.Index // nil when search is not configured
}

func (h *SearchHandler) SearchBeats(c echo.Context) error {
	if h.Index == nil {
		return apperr.Unavailable("search not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return apperr.BadRequest("query parameter q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, page, limit := util.Calculate(page, limit)

	total, docs, err := h.Index.Search(c.Request().Context(), q, offset, limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{
		"beats": docs,
		"pagination": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": util.TotalPages(total, limit),
		},
	})
}
