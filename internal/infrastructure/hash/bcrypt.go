// Package hash provides the bcrypt implementation of ports.PasswordHasher.
// bcrypt output embeds algorithm, cost and per-call salt, so verification
// needs nothing beyond the stored hash.
package hash

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost. Costs outside
// bcrypt's supported range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
