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

type ReviewService struct {
	reviews        ports.ReviewRepository
	accommodations ports.AccommodationRepository
	log            zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, accommodations ports.AccommodationRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, accommodations: accommodations, log: log}
}

func (s *ReviewService) List(ctx context.Context, filter ports.ReviewFilter) ([]*domain.Review, error) {
	items, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return items, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.FindByID(ctx, id)
}

func (s *ReviewService) Create(ctx context.Context, principal *domain.User, in ports.CreateReviewInput) (*domain.Review, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	acc, err := s.accommodations.FindByID(ctx, in.AccommodationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reviews.List(ctx, ports.ReviewFilter{AccommodationID: acc.ID, UserID: principal.ID})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if len(existing) > 0 {
		return nil, domain.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	created, err := s.reviews.Create(ctx, &domain.Review{
		User:          principal.ID,
		Accommodation: acc.ID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info().Str("review_id", created.ID).Str("accommodation_id", acc.ID).Msg("review created")
	return created, nil
}

func (s *ReviewService) Update(ctx context.Context, principal *domain.User, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	r, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
	}
	if patch.Comment != nil {
		trimmed := strings.TrimSpace(*patch.Comment)
		patch.Comment = &trimmed
	}

	patch.Apply(r)
	r.UpdatedAt = time.Now().UTC()

	updated, err := s.reviews.Update(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, principal *domain.User, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func (s *ReviewService) owned(ctx context.Context, principal *domain.User, id string) (*domain.Review, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireOwner(principal, r); err != nil {
		return nil, err
	}
	return r, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return domain.Validation("rating must be a number between 1 and 5")
	}
	return nil
}
