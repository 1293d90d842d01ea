package memory

import (
	"context"
	"time"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v := *b
	v.ID = newID()
	r.s.bookings[v.ID] = v
	return &v, nil
}

func (r bookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &v, nil
}

func (r bookingRepo) ListByUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sorted(r.s.bookings,
		func(b *domain.Booking) bool { return b.User == userID },
		func(a, b *domain.Booking) bool { return a.StartDate.Before(b.StartDate) },
	), nil
}

func (r bookingRepo) Update(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[b.ID]; !ok {
		return nil, domain.ErrBookingNotFound
	}
	v := *b
	r.s.bookings[v.ID] = v
	return &v, nil
}

func (r bookingRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r bookingRepo) HasOverlap(_ context.Context, accommodationID string, start, end time.Time, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, b := range r.s.bookings {
		if id == excludeID || b.Accommodation != accommodationID || b.Status != domain.BookingConfirmed {
			continue
		}
		if b.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
