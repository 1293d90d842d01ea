package ports

import (
	"context"
	"time"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

// UserRepository persists accounts. Lookups of unknown ids, including ids the
// store can not parse, return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces the stored user. A concurrent delete yields ErrUserNotFound.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// AccommodationFilter carries the list/search predicates. Zero values mean
// "no constraint".
type AccommodationFilter struct {
	OwnerID  string
	City     string   // case-insensitive substring
	MinPrice *float64 // inclusive
	MaxPrice *float64 // inclusive
}

type AccommodationRepository interface {
	Create(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error)
	FindByID(ctx context.Context, id string) (*domain.Accommodation, error)
	List(ctx context.Context, filter AccommodationFilter) ([]*domain.Accommodation, error)
	Update(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error)
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	// HasOverlap reports whether a confirmed booking other than excludeID
	// intersects [start, end) on the accommodation.
	HasOverlap(ctx context.Context, accommodationID string, start, end time.Time, excludeID string) (bool, error)
}

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	AccommodationID string
	UserID          string
}

type ReviewRepository interface {
	// Create returns domain.ErrAlreadyReviewed when the user already reviewed
	// the accommodation.
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*domain.Review, error)
	Update(ctx context.Context, r *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	// ListConversation returns the messages exchanged between a and b, oldest first.
	ListConversation(ctx context.Context, a, b string) ([]*domain.Message, error)
	// ListForUser returns every message sent or received by userID, oldest first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Message, error)
	Delete(ctx context.Context, id string) error
}

type WishlistRepository interface {
	// Create returns domain.ErrAlreadyWishlisted for a duplicate
	// (user, accommodation) pair.
	Create(ctx context.Context, w *domain.WishlistItem) (*domain.WishlistItem, error)
	FindByID(ctx context.Context, id string) (*domain.WishlistItem, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.WishlistItem, error)
	Delete(ctx context.Context, id string) error
}

// Store groups the repositories of one backing data store.
type Store interface {
	Users() UserRepository
	Accommodations() AccommodationRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository
	Messages() MessageRepository
	Wishlist() WishlistRepository
	Ping(ctx context.Context) error
}
