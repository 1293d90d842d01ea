package service

import (
	"context"
	"errors"
	"testing"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

func (f *fixture) book(t *testing.T, p *domain.User, accID string, from, to, guests int) *domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), p, ports.CreateBookingInput{
		AccommodationID: accID, StartDate: day(from), EndDate: day(to), Guests: guests,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(t)
	a := f.accommodation(t, f.alice)

	b := f.book(t, f.bob, a.ID, 0, 3, 2)
	if b.User != f.bob.ID || b.Status != domain.BookingConfirmed {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.TotalPrice != 240 {
		t.Fatalf("expected total 3 nights x 80 = 240, got %v", b.TotalPrice)
	}
}

func TestBookingService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	a := f.accommodation(t, f.alice)
	ctx := context.Background()

	cases := map[string]ports.CreateBookingInput{
		"no dates":      {AccommodationID: a.ID, Guests: 1},
		"end before":    {AccommodationID: a.ID, StartDate: day(3), EndDate: day(1), Guests: 1},
		"same day":      {AccommodationID: a.ID, StartDate: day(1), EndDate: day(1), Guests: 1},
		"no guests":     {AccommodationID: a.ID, StartDate: day(1), EndDate: day(2)},
		"over capacity": {AccommodationID: a.ID, StartDate: day(1), EndDate: day(2), Guests: 4},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.bookings.Create(ctx, f.bob, in); domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	_, err := f.bookings.Create(ctx, f.bob, ports.CreateBookingInput{AccommodationID: missingID, StartDate: day(1), EndDate: day(2), Guests: 1})
	if !errors.Is(err, domain.ErrAccommodationNotFound) {
		t.Fatalf("expected ErrAccommodationNotFound, got %v", err)
	}
}

func TestBookingService_Overlap(t *testing.T) {
	f := newFixture(t)
	a := f.accommodation(t, f.alice)
	ctx := context.Background()
	first := f.book(t, f.bob, a.ID, 2, 5, 1)

	_, err := f.bookings.Create(ctx, f.alice, ports.CreateBookingInput{AccommodationID: a.ID, StartDate: day(4), EndDate: day(6), Guests: 1})
	if !errors.Is(err, domain.ErrBookingUnavailable) {
		t.Fatalf("expected ErrBookingUnavailable, got %v", err)
	}

	// Back-to-back stays share only the checkout day.
	f.book(t, f.alice, a.ID, 5, 7, 1)

	cancelled := domain.BookingCancelled
	if _, err := f.bookings.Update(ctx, f.bob, first.ID, domain.BookingPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	f.book(t, f.alice, a.ID, 2, 4, 1)
}

func TestBookingService_Update(t *testing.T) {
	f := newFixture(t)
	a := f.accommodation(t, f.alice)
	ctx := context.Background()
	b := f.book(t, f.bob, a.ID, 0, 2, 1)

	end := day(4)
	updated, err := f.bookings.Update(ctx, f.bob, b.ID, domain.BookingPatch{EndDate: &end})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.TotalPrice != 320 {
		t.Fatalf("expected total to be recomputed to 320, got %v", updated.TotalPrice)
	}

	pending := domain.BookingStatus("pending")
	if _, err := f.bookings.Update(ctx, f.bob, b.ID, domain.BookingPatch{Status: &pending}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	cancelled := domain.BookingCancelled
	if _, err := f.bookings.Update(ctx, f.bob, b.ID, domain.BookingPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	guests := 2
	if _, err := f.bookings.Update(ctx, f.bob, b.ID, domain.BookingPatch{Guests: &guests}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected cancelled booking to be frozen, got %v", err)
	}
}

func TestBookingService_Ownership(t *testing.T) {
	f := newFixture(t)
	a := f.accommodation(t, f.alice)
	ctx := context.Background()
	b := f.book(t, f.bob, a.ID, 0, 2, 1)
	guests := 2

	if _, err := f.bookings.Get(ctx, f.alice, b.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on get, got %v", err)
	}
	if _, err := f.bookings.Update(ctx, f.alice, b.ID, domain.BookingPatch{Guests: &guests}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	if err := f.bookings.Delete(ctx, f.alice, b.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	for _, p := range []*domain.User{f.alice, f.bob} {
		if _, err := f.bookings.Get(ctx, p, missingID); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
		if err := f.bookings.Delete(ctx, p, missingID); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	}

	list, err := f.bookings.List(ctx, f.alice)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected alice to see no bookings, got %d (%v)", len(list), err)
	}
	if err := f.bookings.Delete(ctx, f.bob, b.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}
