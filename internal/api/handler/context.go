package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/middleware"
	"github.com/octodock/marketplace-api/internal/core/domain"
)

// messageResponse is the body of endpoints that only confirm an action.
type messageResponse struct {
	Message string `json:"message"`
}

// currentPrincipal returns the principal attached by the auth middleware, or
// nil on anonymous routes.
func currentPrincipal(c echo.Context) *domain.User {
	return middleware.PrincipalFrom(c)
}

// bind decodes the request into req and runs the registered validator.
// Decoding failures are reported as validation errors.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("invalid payload")
	}
	return c.Validate(req)
}
