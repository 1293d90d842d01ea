package ports

import (
	"context"
	"time"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(principalID string) (string, error)
}

// TokenVerifier checks a token and returns the principal id it carries.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// LoginLimiter throttles failed logins per key.
type LoginLimiter interface {
	// Allowed reports whether another attempt may be made for key.
	Allowed(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// ProfilePatch is a partial update of the caller's own account.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, principal *domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, principal *domain.User, patch ProfilePatch) (*domain.User, error)
	DeleteAccount(ctx context.Context, principal *domain.User) error
	ListUsers(ctx context.Context, principal *domain.User) ([]*domain.User, error)
}

type CreateAccommodationInput struct {
	Name          string
	Description   string
	Location      string
	City          string
	PricePerNight float64
	MaxGuests     int
}

type AccommodationService interface {
	List(ctx context.Context, filter AccommodationFilter) ([]*domain.Accommodation, error)
	Get(ctx context.Context, id string) (*domain.Accommodation, error)
	Create(ctx context.Context, principal *domain.User, in CreateAccommodationInput) (*domain.Accommodation, error)
	Update(ctx context.Context, principal *domain.User, id string, patch domain.AccommodationPatch) (*domain.Accommodation, error)
	Delete(ctx context.Context, principal *domain.User, id string) error
}

type CreateBookingInput struct {
	AccommodationID string
	StartDate       time.Time
	EndDate         time.Time
	Guests          int
}

type BookingService interface {
	Create(ctx context.Context, principal *domain.User, in CreateBookingInput) (*domain.Booking, error)
	List(ctx context.Context, principal *domain.User) ([]*domain.Booking, error)
	Get(ctx context.Context, principal *domain.User, id string) (*domain.Booking, error)
	Update(ctx context.Context, principal *domain.User, id string, patch domain.BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, principal *domain.User, id string) error
}

type CreateReviewInput struct {
	AccommodationID string
	Rating          int
	Comment         string
}

type ReviewService interface {
	List(ctx context.Context, filter ReviewFilter) ([]*domain.Review, error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	Create(ctx context.Context, principal *domain.User, in CreateReviewInput) (*domain.Review, error)
	Update(ctx context.Context, principal *domain.User, id string, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, principal *domain.User, id string) error
}

type MessageService interface {
	Send(ctx context.Context, principal *domain.User, recipientID, content string) (*domain.Message, error)
	Get(ctx context.Context, principal *domain.User, id string) (*domain.Message, error)
	List(ctx context.Context, principal *domain.User) ([]*domain.Message, error)
	Conversation(ctx context.Context, principal *domain.User, otherUserID string) ([]*domain.Message, error)
	Delete(ctx context.Context, principal *domain.User, id string) error
}

type WishlistService interface {
	List(ctx context.Context, principal *domain.User) ([]*domain.WishlistItem, error)
	Add(ctx context.Context, principal *domain.User, accommodationID string) (*domain.WishlistItem, error)
	Remove(ctx context.Context, principal *domain.User, id string) error
}
