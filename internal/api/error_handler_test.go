package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

func invoke(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid username", domain.ErrInvalidUsername, http.StatusBadRequest},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"invalid password", domain.ErrInvalidPassword, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest},
		{"nil parameter", domain.ErrNilParameter, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound},
		{"username taken", domain.ErrUsernameTaken, http.StatusConflict},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"constraint violation", domain.ErrConstraintViolation, http.StatusConflict},
		{"too many attempts", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"storage failure", domain.ErrStorage, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := invoke(t, tt.err)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] == "" {
				t.Fatal("expected error message in envelope")
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedErrorsResolve(t *testing.T) {
	wrapped := errors.Join(errors.New("fetch account id=7"), domain.ErrAccountNotFound)
	rec := invoke(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped not-found, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_NeverLeaksInternalDetail(t *testing.T) {
	rec := invoke(t, errors.New("dial tcp 10.0.0.5:27017: connection refused"))

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp["error"])
	}
}

func TestHTTPErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec := invoke(t, echo.NewHTTPError(http.StatusBadRequest, "id must be a number"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "id must be a number" {
		t.Fatalf("unexpected message: %q", resp["error"])
	}
}
