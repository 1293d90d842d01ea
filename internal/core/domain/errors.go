package domain

import (
	"errors"
	"strings"
)

// Kind classifies a failure so the transport layer can map it to a status code
// without inspecting messages.
type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Error is the single error type returned by the core. Sentinels below are
// *Error values, so callers match them with errors.Is and read the kind with
// KindOf.
type Error struct {
	Kind    Kind
	Message string
	// Details lists every violated constraint for validation failures.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error. The first detail becomes the message.
func Validation(details ...string) *Error {
	msg := "validation failed"
	if len(details) > 0 {
		msg = details[0]
	}
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Anything else is
// internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// PublicMessage is the message safe to show a client: the outermost *Error's
// message, without the wrapped cause.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}

// ValidationDetails returns every violated constraint carried by err.
func ValidationDetails(err error) []string {
	var de *Error
	if errors.As(err, &de) && de.Kind == KindValidation {
		return de.Details
	}
	return nil
}

// Authentication
var (
	ErrMissingToken       = &Error{Kind: KindUnauthenticated, Message: "not authorized, token missing"}
	ErrInvalidToken       = &Error{Kind: KindUnauthenticated, Message: "not authorized, token invalid"}
	ErrExpiredToken       = &Error{Kind: KindUnauthenticated, Message: "not authorized, token expired"}
	ErrPrincipalNotFound  = &Error{Kind: KindUnauthenticated, Message: "not authorized, user not found"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "invalid credentials"}
	ErrTooManyAttempts    = &Error{Kind: KindRateLimited, Message: "too many login attempts, try again later"}
)

// Authorization
var (
	ErrForbidden     = &Error{Kind: KindForbidden, Message: "forbidden: not the owner"}
	ErrRoleForbidden = &Error{Kind: KindForbidden, Message: "user role not authorized"}
)

// Existence
var (
	ErrUserNotFound          = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrAccommodationNotFound = &Error{Kind: KindNotFound, Message: "accommodation not found"}
	ErrBookingNotFound       = &Error{Kind: KindNotFound, Message: "booking not found"}
	ErrReviewNotFound        = &Error{Kind: KindNotFound, Message: "review not found"}
	ErrMessageNotFound       = &Error{Kind: KindNotFound, Message: "message not found"}
	ErrWishlistItemNotFound  = &Error{Kind: KindNotFound, Message: "wishlist item not found"}
)

// Conflicts
var (
	ErrUserExists         = &Error{Kind: KindConflict, Message: "user already exists"}
	ErrAlreadyWishlisted  = &Error{Kind: KindConflict, Message: "accommodation already in wishlist"}
	ErrAlreadyReviewed    = &Error{Kind: KindConflict, Message: "accommodation already reviewed"}
	ErrBookingUnavailable = &Error{Kind: KindConflict, Message: "accommodation already booked for these dates"}
)

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
