package handler

import (
	"time"

	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Role     string `json:"role,omitempty"`
}

// updateAccountRequest is a partial update: absent fields stay untouched.
type updateAccountRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type accountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type accountPageResponse struct {
	Items      []accountResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

func toAccountResponse(v *ports.AccountView) accountResponse {
	return accountResponse{
		ID:        v.ID,
		Username:  v.Username,
		Email:     v.Email,
		Role:      string(v.Role),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toAccountPageResponse(p *ports.AccountViewPage) accountPageResponse {
	items := make([]accountResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, toAccountResponse(&p.Items[i]))
	}
	return accountPageResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
