package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/finance-tracker/internal/api/metrics"
	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// AuthHandler handles public registration and login.
type AuthHandler struct {
	accounts ports.AccountService
	auth     ports.AuthService
}

func NewAuthHandler(accounts ports.AccountService, auth ports.AuthService) *AuthHandler {
	return &AuthHandler{accounts: accounts, auth: auth}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email"    validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

// Register creates a new USER account. Role is never caller-controlled here.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.accounts.Create(c.Request().Context(), ports.CreateAccountInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(view.Role)).Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(view))
}

// Login authenticates and returns a bearer token for subsequent requests.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, view, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, Account: toAccountResponse(view)})
}
