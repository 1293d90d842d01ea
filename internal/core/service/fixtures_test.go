package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
	"github.com/octodock/marketplace-api/internal/infrastructure/db/memory"
)

// missingID is a well-formed id that no store hands out in tests.
const missingID = "000000000000000000000000"

type fixture struct {
	store          *memory.Store
	accommodations *AccommodationService
	bookings       *BookingService
	reviews        *ReviewService
	messages       *MessageService
	wishlist       *WishlistService
	alice, bob     *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()

	f := &fixture{
		store:          store,
		accommodations: NewAccommodationService(store.Accommodations(), log),
		bookings:       NewBookingService(store.Bookings(), store.Accommodations(), log),
		reviews:        NewReviewService(store.Reviews(), store.Accommodations(), log),
		messages:       NewMessageService(store.Messages(), store.Users(), log),
		wishlist:       NewWishlistService(store.Wishlist(), store.Accommodations(), log),
	}
	f.alice = f.user(t, "alice@example.com", domain.RoleHost)
	f.bob = f.user(t, "bob@example.com", domain.RoleUser)
	return f
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), &domain.User{
		Name: email, Email: email, Role: role, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.Public()
}

func (f *fixture) accommodation(t *testing.T, owner *domain.User) *domain.Accommodation {
	t.Helper()
	a, err := f.accommodations.Create(context.Background(), owner, ports.CreateAccommodationInput{
		Name:          "Sea view flat",
		Location:      "Rua Augusta 1",
		City:          "Lisbon",
		PricePerNight: 80,
		MaxGuests:     3,
	})
	if err != nil {
		t.Fatalf("create accommodation: %v", err)
	}
	return a
}

func day(n int) time.Time {
	return time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}
