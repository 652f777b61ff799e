package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// CategoryHandler handles category CRUD for the authenticated account.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"required,oneof=income expense"`
}

// Create handles POST /v1/categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.service.Create(c.Request().Context(), ports.CreateCategoryInput{
		AccountID: actingAccountID(c),
		Name:      req.Name,
		Kind:      domain.EntryKind(req.Kind),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// List handles GET /v1/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.List(c.Request().Context(), actingAccountID(c))
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

// Delete handles DELETE /v1/categories/:id. Idempotent.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actingAccountID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
