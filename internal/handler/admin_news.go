package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

type newsReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r newsReq) valid() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Content) != ""
}

// CreateNews publishes an announcement.
func (h *AdminHandler) CreateNews(c echo.Context) error {
	var req newsReq
	if err := c.Bind(&req); err != nil || !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content required"})
	}
	n := &model.News{Title: strings.TrimSpace(req.Title), Content: strings.TrimSpace(req.Content)}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.News.Create(ctx, n); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}

// UpdateNews edits an announcement.
func (h *AdminHandler) UpdateNews(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req newsReq
	if err := c.Bind(&req); err != nil || !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content required"})
	}
	n := &model.News{ID: id, Title: strings.TrimSpace(req.Title), Content: strings.TrimSpace(req.Content)}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.News.Update(ctx, n); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// DeleteNews removes an announcement.
func (h *AdminHandler) DeleteNews(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.News.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
