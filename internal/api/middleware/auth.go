package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

const principalKey = "marketplace.principal"

// PrincipalLoader resolves the principal a verified token refers to.
type PrincipalLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth requires a valid bearer token whose principal still exists, and
// attaches that principal to the context.
func Auth(verifier ports.TokenVerifier, users PrincipalLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := authenticate(c, verifier, users)
			if err != nil {
				return err
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// OptionalAuth lets requests without an Authorization header through
// anonymously. A header that is present must still be valid.
func OptionalAuth(verifier ports.TokenVerifier, users PrincipalLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			principal, err := authenticate(c, verifier, users)
			if err != nil {
				return err
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous
// requests.
func PrincipalFrom(c echo.Context) *domain.User {
	p, _ := c.Get(principalKey).(*domain.User)
	return p
}

func authenticate(c echo.Context, verifier ports.TokenVerifier, users PrincipalLoader) (*domain.User, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, reject("missing_token", domain.ErrMissingToken)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, reject("malformed_header", domain.ErrInvalidToken)
	}

	id, err := verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		if errors.Is(err, domain.ErrExpiredToken) {
			return nil, reject("expired_token", err)
		}
		return nil, reject("invalid_token", domain.ErrInvalidToken)
	}

	user, err := users.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, reject("user_not_found", domain.ErrPrincipalNotFound)
		}
		return nil, reject("lookup_error", fmt.Errorf("load principal: %w", err))
	}
	return user.Public(), nil
}

func reject(reason string, err error) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	return err
}
