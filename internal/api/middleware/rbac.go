package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/guard"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := guard.RequireRole(PrincipalFrom(c), allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
