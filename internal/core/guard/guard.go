// Package guard holds the authorization checks shared by every resource:
// role membership and resource ownership. Callers confirm existence before
// calling RequireOwner so a missing resource surfaces as not-found.
package guard

import (
	"github.com/octodock/marketplace-api/internal/core/domain"
)

// Owned is implemented by every resource that belongs to exactly one user.
type Owned interface {
	OwnerID() string
}

// RequireRole fails with ErrMissingToken when there is no principal and with
// ErrRoleForbidden when the principal's role is not in roles.
func RequireRole(principal *domain.User, roles ...domain.Role) error {
	if principal == nil {
		return domain.ErrMissingToken
	}
	for _, r := range roles {
		if principal.Role == r {
			return nil
		}
	}
	return domain.ErrRoleForbidden
}

// RequireOwner fails with ErrForbidden unless principal owns resource.
func RequireOwner(principal *domain.User, resource Owned) error {
	if principal == nil {
		return domain.ErrMissingToken
	}
	if principal.ID == "" || principal.ID != resource.OwnerID() {
		return domain.ErrForbidden
	}
	return nil
}

// IsParticipant reports whether principal is one of ids.
func IsParticipant(principal *domain.User, ids ...string) bool {
	if principal == nil || principal.ID == "" {
		return false
	}
	for _, id := range ids {
		if id == principal.ID {
			return true
		}
	}
	return false
}
