package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/finance-tracker/internal/api/metrics"
	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// TransactionHandler handles transaction CRUD for the authenticated account.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type transactionRequest struct {
	Amount      float64 `json:"amount"`
	Kind        string  `json:"kind" validate:"required,oneof=income expense"`
	Date        string  `json:"date,omitempty"`
	Description string  `json:"description,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
}

func (req transactionRequest) toInput(accountID int64) (ports.TransactionInput, error) {
	in := ports.TransactionInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Kind:        domain.EntryKind(req.Kind),
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "date must be RFC3339")
		}
		in.Date = date
	}
	return in, nil
}

// Create handles POST /v1/transactions.
//
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      transactionRequest  true  "Transaction details"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Router       /v1/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := req.toInput(actingAccountID(c))
	if err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.TransactionsRecordedTotal.WithLabelValues(string(created.Kind)).Inc()
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/transactions/:id.
func (h *TransactionHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	t, err := h.service.Get(c.Request().Context(), actingAccountID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// List handles GET /v1/transactions?page=&limit=&from=&to=.
func (h *TransactionHandler) List(c echo.Context) error {
	filter := ports.TransactionFilter{
		AccountID: actingAccountID(c),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be RFC3339")
		}
		filter.From = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be RFC3339")
		}
		filter.To = t
	}

	page, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Update handles PUT /v1/transactions/:id.
func (h *TransactionHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := req.toInput(actingAccountID(c))
	if err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/transactions/:id. Idempotent.
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actingAccountID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
