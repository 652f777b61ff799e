package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/finance-tracker/internal/api/metrics"
	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// AccountHandler handles HTTP requests for account management. Error-to-status
// mapping happens in the central HTTP error handler.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /v1/accounts (admin only; role selectable).
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(view.Role)).Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(view))
}

// GetByID handles GET /v1/accounts/:id.
//
// @Summary      Get an account by id
// @Tags         accounts
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) GetByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(view))
}

// GetByUsername handles GET /v1/accounts/username/:username.
func (h *AccountHandler) GetByUsername(c echo.Context) error {
	view, err := h.service.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(view))
}

// List handles GET /v1/accounts?page=&limit=&username=. A username query
// filters by substring; omitting it lists everything.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BasicAuth
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        username  query     string  false  "Username substring filter"
// @Success      200       {object}  accountPageResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	page := ports.PageRequest{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}

	var (
		result *ports.AccountViewPage
		err    error
	)
	if substring, ok := c.QueryParams()["username"]; ok {
		result, err = h.service.ListByUsernameContaining(c.Request().Context(), substring[0], page)
	} else {
		result, err = h.service.List(c.Request().Context(), page)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountPageResponse(result))
}

// ListByRole handles GET /v1/accounts/role/:role (admin only).
func (h *AccountHandler) ListByRole(c echo.Context) error {
	views, err := h.service.ListByRole(c.Request().Context(), domain.Role(c.Param("role")))
	if err != nil {
		return err
	}
	items := make([]accountResponse, 0, len(views))
	for i := range views {
		items = append(items, toAccountResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, items)
}

// Update handles PATCH /v1/accounts/:id. Absent fields keep their stored
// values.
//
// @Summary      Partially update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int                   true  "Account id"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.Update(c.Request().Context(), id, ports.AccountPatch{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(view))
}

// Delete handles DELETE /v1/accounts/:id (admin only). Deleting an absent id
// still returns 204.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.AccountsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// ChangeRole handles PUT /v1/accounts/:id/role (admin only).
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.service.ChangeRole(c.Request().Context(), id, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(view))
}

// Exists handles GET /v1/accounts/exists?username= or ?email=.
func (h *AccountHandler) Exists(c echo.Context) error {
	ctx := c.Request().Context()
	if username := c.QueryParam("username"); username != "" {
		exists, err := h.service.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, existsResponse{Exists: exists})
	}
	if email := c.QueryParam("email"); email != "" {
		exists, err := h.service.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, existsResponse{Exists: exists})
	}
	return echo.NewHTTPError(http.StatusBadRequest, "username or email query parameter required")
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a number")
	}
	return id, nil
}

func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}
