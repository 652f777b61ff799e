package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// AuthService verifies credentials against the account store and issues JWTs.
// Failed attempts are throttled per username through the LoginGuard.
type AuthService struct {
	repo      ports.AccountRepository
	hasher    ports.PasswordHasher
	guard     ports.LoginGuard
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, hasher ports.PasswordHasher, guard ports.LoginGuard, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, hasher: hasher, guard: guard, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Authenticate checks username/password. Lookup misses and password
// mismatches are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*ports.AccountView, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.guard.Blocked(ctx, username)
	if err != nil {
		// Guard outage must not lock everyone out.
		s.log.Warn().Err(err).Str("username", username).Msg("login guard unavailable, proceeding")
	} else if blocked {
		return nil, domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = s.guard.Failed(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("account lookup failed during login")
		return nil, domain.ErrStorage
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		_ = s.guard.Failed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	_ = s.guard.Reset(ctx, username)
	return toView(account), nil
}

// Login authenticates and returns a signed bearer token plus the account view.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *ports.AccountView, error) {
	view, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(view)
	if err != nil {
		s.log.Error().Err(err).Msg("token signing failed")
		return "", nil, err
	}
	return token, view, nil
}

func (s *AuthService) generateToken(view *ports.AccountView) (string, error) {
	claims := jwt.MapClaims{
		"sub":      view.ID,
		"username": view.Username,
		"role":     string(view.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
