package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/guard"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type BookingService struct {
	bookings       ports.BookingRepository
	accommodations ports.AccommodationRepository
	log            zerolog.Logger
}

func NewBookingService(bookings ports.BookingRepository, accommodations ports.AccommodationRepository, log zerolog.Logger) *BookingService {
	return &BookingService{bookings: bookings, accommodations: accommodations, log: log}
}

func (s *BookingService) Create(ctx context.Context, principal *domain.User, in ports.CreateBookingInput) (*domain.Booking, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}

	acc, err := s.accommodations.FindByID(ctx, in.AccommodationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Booking{
		User:          principal.ID,
		Accommodation: acc.ID,
		StartDate:     in.StartDate.UTC(),
		EndDate:       in.EndDate.UTC(),
		Guests:        in.Guests,
		Status:        domain.BookingConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.prepare(ctx, b, acc); err != nil {
		return nil, err
	}

	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().
		Str("booking_id", created.ID).
		Str("accommodation_id", acc.ID).
		Str("user_id", principal.ID).
		Msg("booking created")
	return created, nil
}

func (s *BookingService) List(ctx context.Context, principal *domain.User) ([]*domain.Booking, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	items, err := s.bookings.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return items, nil
}

func (s *BookingService) Get(ctx context.Context, principal *domain.User, id string) (*domain.Booking, error) {
	return s.owned(ctx, principal, id)
}

func (s *BookingService) Update(ctx context.Context, principal *domain.User, id string, patch domain.BookingPatch) (*domain.Booking, error) {
	b, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && *patch.Status != domain.BookingCancelled && *patch.Status != b.Status {
		return nil, domain.Validation("status can only be changed to cancelled")
	}
	if b.Status == domain.BookingCancelled && (patch.StartDate != nil || patch.EndDate != nil || patch.Guests != nil) {
		return nil, domain.Validation("a cancelled booking can not be modified")
	}

	patch.Apply(b)
	b.StartDate, b.EndDate = b.StartDate.UTC(), b.EndDate.UTC()

	if b.Status == domain.BookingConfirmed {
		acc, err := s.accommodations.FindByID(ctx, b.Accommodation)
		if err != nil {
			return nil, err
		}
		if err := s.prepare(ctx, b, acc); err != nil {
			return nil, err
		}
	}
	b.UpdatedAt = time.Now().UTC()

	updated, err := s.bookings.Update(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return updated, nil
}

func (s *BookingService) Delete(ctx context.Context, principal *domain.User, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// prepare validates b against its accommodation and computes the total price.
func (s *BookingService) prepare(ctx context.Context, b *domain.Booking, acc *domain.Accommodation) error {
	var problems []string
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		problems = append(problems, "valid startDate and endDate are required")
	} else if !b.StartDate.Before(b.EndDate) {
		problems = append(problems, "startDate must be before endDate")
	}
	if b.Guests < 1 {
		problems = append(problems, "guests must be at least 1")
	} else if b.Guests > acc.MaxGuests {
		problems = append(problems, fmt.Sprintf("guests must not exceed %d", acc.MaxGuests))
	}
	if len(problems) > 0 {
		return domain.Validation(problems...)
	}

	taken, err := s.bookings.HasOverlap(ctx, acc.ID, b.StartDate, b.EndDate, b.ID)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	if taken {
		return domain.ErrBookingUnavailable
	}

	b.TotalPrice = math.Round(float64(b.Nights())*acc.PricePerNight*100) / 100
	return nil
}

func (s *BookingService) owned(ctx context.Context, principal *domain.User, id string) (*domain.Booking, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireOwner(principal, b); err != nil {
		return nil, err
	}
	return b, nil
}

