package ports

import "context"

// AuthService verifies credentials for the HTTP auth layer and issues tokens.
type AuthService interface {
	// Authenticate checks username/password against the account store and
	// returns the matching account view. Used by both the basic-auth
	// middleware and the login endpoint.
	Authenticate(ctx context.Context, username, password string) (*AccountView, error)

	// Login authenticates and issues a signed JWT for bearer use.
	Login(ctx context.Context, username, password string) (string, *AccountView, error)
}

// LoginGuard throttles failed login attempts per username.
type LoginGuard interface {
	// Blocked reports whether the username has exhausted its attempt budget.
	Blocked(ctx context.Context, username string) (bool, error)
	// Failed records one failed attempt.
	Failed(ctx context.Context, username string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
