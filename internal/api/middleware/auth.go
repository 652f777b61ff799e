package middleware

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// Auth authenticates the request and injects account identity into context.
// Two schemes are accepted:
//   - Basic: credentials verified against the account store on every request.
//   - Bearer: a JWT previously issued by the login endpoint.
//
// On success the context carries "account_id" (int64), "username" (string)
// and "role" (string).
func Auth(authService ports.AuthService, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			switch {
			case strings.EqualFold(parts[0], "basic"):
				return basicAuth(c, next, authService, parts[1])
			case strings.EqualFold(parts[0], "bearer"):
				return bearerAuth(c, next, jwtSecret, parts[1])
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "unsupported authorization scheme")
		}
	}
}

func basicAuth(c echo.Context, next echo.HandlerFunc, authService ports.AuthService, encoded string) error {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid basic credentials")
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid basic credentials")
	}

	view, err := authService.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	c.Set("account_id", view.ID)
	c.Set("username", view.Username)
	c.Set("role", string(view.Role))
	return next(c)
}

func bearerAuth(c echo.Context, next echo.HandlerFunc, jwtSecret, token string) error {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	// JSON numbers decode as float64.
	sub, _ := claims["sub"].(float64)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	c.Set("account_id", int64(sub))
	c.Set("username", username)
	c.Set("role", role)
	return next(c)
}
