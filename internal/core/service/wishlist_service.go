package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/guard"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type WishlistService struct {
	items          ports.WishlistRepository
	accommodations ports.AccommodationRepository
	log            zerolog.Logger
}

func NewWishlistService(items ports.WishlistRepository, accommodations ports.AccommodationRepository, log zerolog.Logger) *WishlistService {
	return &WishlistService{items: items, accommodations: accommodations, log: log}
}

func (s *WishlistService) List(ctx context.Context, principal *domain.User) ([]*domain.WishlistItem, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	items, err := s.items.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

// Add bookmarks an accommodation. Adding the same accommodation twice is a
// conflict.
func (s *WishlistService) Add(ctx context.Context, principal *domain.User, accommodationID string) (*domain.WishlistItem, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	if accommodationID == "" {
		return nil, domain.Validation("accommodation ID is required")
	}
	acc, err := s.accommodations.FindByID(ctx, accommodationID)
	if err != nil {
		return nil, err
	}

	created, err := s.items.Create(ctx, &domain.WishlistItem{
		User:          principal.ID,
		Accommodation: acc.ID,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	return created, nil
}

func (s *WishlistService) Remove(ctx context.Context, principal *domain.User, id string) error {
	if principal == nil {
		return domain.ErrMissingToken
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := guard.RequireOwner(principal, item); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}
