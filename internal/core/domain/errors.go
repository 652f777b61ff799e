package domain

import "errors"

// Validation failures. Always caller-fixable; detected before any write.
var (
	ErrInvalidUsername = errors.New("username must be 3-20 characters of letters, digits, dots or underscores")
	ErrInvalidEmail    = errors.New("email address is not valid")
	ErrInvalidPassword = errors.New("password must be 12-64 characters with upper, lower, digit and one of !.*_-")
	ErrInvalidID       = errors.New("id must be a positive number")
	ErrInvalidRole     = errors.New("role must be USER or ADMIN")
	ErrNilParameter    = errors.New("required parameter is missing")
)

// Lookup and uniqueness failures.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("Username already taken")
	ErrEmailTaken      = errors.New("Email already taken")
)

// ErrConstraintViolation is returned by stores when a unique index rejects a
// write. The service layer maps it to ErrUsernameTaken / ErrEmailTaken.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrStorage wraps unexpected store failures so internal failure modes never
// leak to the boundary. Callers see only this sentinel.
var ErrStorage = errors.New("storage failure")

// Auth failures mapped at the API edge.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Category / transaction failures.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryTaken       = errors.New("category name already in use")
	ErrInvalidCategory     = errors.New("category name must be 1-60 characters")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("transaction kind must be income or expense")
)
