// Package validation is the single source of truth for account field rules.
// All functions are pure: no persistence state is consulted, uniqueness is
// the service layer's concern.
package validation

import (
	"regexp"
	"strings"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
	EmailMinLen    = 2
	EmailMaxLen    = 255
	// bcrypt only considers the first 72 bytes of input; capping at 64 keeps
	// every accepted character significant.
	PasswordMinLen = 12
	PasswordMaxLen = 64
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)
	// Passwords may only contain letters, digits and the allowed specials.
	passwordCharsRe = regexp.MustCompile(`^[A-Za-z0-9!.*_-]+$`)
	passwordSpecial = "!.*_-"
)

// Username checks format and length only. Comparison length is taken after
// lower-casing, matching the case-insensitive uniqueness rule.
func Username(value string) error {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || len(v) < UsernameMinLen || len(v) > UsernameMaxLen {
		return domain.ErrInvalidUsername
	}
	if !usernameRe.MatchString(value) {
		return domain.ErrInvalidUsername
	}
	return nil
}

// Email checks the local@domain.tld shape and the [2,255] length bounds.
func Email(value string) error {
	if value == "" || len(value) < EmailMinLen || len(value) > EmailMaxLen {
		return domain.ErrInvalidEmail
	}
	if !emailRe.MatchString(value) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// Password enforces length bounds, the restricted charset, and presence of
// one upper-case letter, one lower-case letter, one digit and one special
// from !.*_-
func Password(value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.ErrInvalidPassword
	}
	if len(value) < PasswordMinLen || len(value) > PasswordMaxLen {
		return domain.ErrInvalidPassword
	}
	if !passwordCharsRe.MatchString(value) {
		return domain.ErrInvalidPassword
	}
	var upper, lower, digit, special bool
	for _, c := range value {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecial, c):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return domain.ErrInvalidPassword
	}
	return nil
}

// ID rejects non-positive surrogate ids.
func ID(value int64) error {
	if value <= 0 {
		return domain.ErrInvalidID
	}
	return nil
}

// NormalizeUsername returns the canonical form used for uniqueness checks and
// lookups. Display casing is preserved elsewhere.
func NormalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
