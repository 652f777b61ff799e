package domain

import "time"

// Role classifies an account for permission checks performed at the API edge.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account models one registered user of the finance tracker.
// PasswordHash never leaves the process: it is excluded from JSON and from
// every projected view returned by the service layer.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
