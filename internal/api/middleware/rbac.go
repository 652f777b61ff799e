package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

// RBAC restricts a route to the given roles. It reads the "role" value set
// by Auth, so it must run after it. Rejections surface as
// domain.ErrForbidden for the central error handler to render.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
