package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/guard"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type AccommodationService struct {
	repo ports.AccommodationRepository
	log  zerolog.Logger
}

func NewAccommodationService(repo ports.AccommodationRepository, log zerolog.Logger) *AccommodationService {
	return &AccommodationService{repo: repo, log: log}
}

// List returns the accommodations matching filter. An inverted price range is
// rejected rather than silently returning nothing.
func (s *AccommodationService) List(ctx context.Context, filter ports.AccommodationFilter) ([]*domain.Accommodation, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, domain.Validation("minPrice must not exceed maxPrice")
	}
	filter.City = strings.TrimSpace(filter.City)

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accommodations: %w", err)
	}
	return items, nil
}

func (s *AccommodationService) Get(ctx context.Context, id string) (*domain.Accommodation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccommodationService) Create(ctx context.Context, principal *domain.User, in ports.CreateAccommodationInput) (*domain.Accommodation, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}

	now := time.Now().UTC()
	a := &domain.Accommodation{
		Owner:         principal.ID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Location:      strings.TrimSpace(in.Location),
		City:          strings.TrimSpace(in.City),
		PricePerNight: in.PricePerNight,
		MaxGuests:     in.MaxGuests,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateAccommodation(a); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create accommodation")
		return nil, fmt.Errorf("create accommodation: %w", err)
	}

	s.log.Info().Str("accommodation_id", created.ID).Str("owner", principal.ID).Msg("accommodation created")
	return created, nil
}

func (s *AccommodationService) Update(ctx context.Context, principal *domain.User, id string, patch domain.AccommodationPatch) (*domain.Accommodation, error) {
	a, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(a)
	if err := validateAccommodation(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("update accommodation: %w", err)
	}
	return updated, nil
}

func (s *AccommodationService) Delete(ctx context.Context, principal *domain.User, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete accommodation: %w", err)
	}
	s.log.Info().Str("accommodation_id", id).Msg("accommodation deleted")
	return nil
}

// owned loads id and checks the caller owns it: not-found first, then forbidden.
func (s *AccommodationService) owned(ctx context.Context, principal *domain.User, id string) (*domain.Accommodation, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireOwner(principal, a); err != nil {
		return nil, err
	}
	return a, nil
}

func validateAccommodation(a *domain.Accommodation) error {
	var problems []string
	if a.Name == "" {
		problems = append(problems, "name is required")
	}
	if a.Location == "" {
		problems = append(problems, "location is required")
	}
	if a.PricePerNight <= 0 {
		problems = append(problems, "pricePerNight must be a positive number")
	}
	if a.MaxGuests <= 0 {
		problems = append(problems, "maxGuests must be a positive integer")
	}
	if len(problems) > 0 {
		return domain.Validation(problems...)
	}
	return nil
}
