// Package memory is an in-process implementation of the repositories. It
// backs STORE=memory for local runs and the test suites. All repositories of a
// Store share one lock, mirroring the per-document atomicity of the real store.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type Store struct {
	mu             sync.RWMutex
	users          map[string]domain.User
	accommodations map[string]domain.Accommodation
	bookings       map[string]domain.Booking
	reviews        map[string]domain.Review
	messages       map[string]domain.Message
	wishlist       map[string]domain.WishlistItem
}

var _ ports.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:          make(map[string]domain.User),
		accommodations: make(map[string]domain.Accommodation),
		bookings:       make(map[string]domain.Booking),
		reviews:        make(map[string]domain.Review),
		messages:       make(map[string]domain.Message),
		wishlist:       make(map[string]domain.WishlistItem),
	}
}

func (s *Store) Users() ports.UserRepository                   { return userRepo{s} }
func (s *Store) Accommodations() ports.AccommodationRepository { return accommodationRepo{s} }
func (s *Store) Bookings() ports.BookingRepository             { return bookingRepo{s} }
func (s *Store) Reviews() ports.ReviewRepository               { return reviewRepo{s} }
func (s *Store) Messages() ports.MessageRepository             { return messageRepo{s} }
func (s *Store) Wishlist() ports.WishlistRepository            { return wishlistRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Ids look like the ones the document store hands out.
func newID() string { return primitive.NewObjectID().Hex() }

// sorted returns the values of m ordered by less, filtered by keep.
func sorted[T any](m map[string]T, keep func(*T) bool, less func(a, b *T) bool) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		v := v
		if keep == nil || keep(&v) {
			out = append(out, &v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
