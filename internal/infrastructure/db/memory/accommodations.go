package memory

import (
	"context"
	"strings"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type accommodationRepo struct{ s *Store }

func (r accommodationRepo) Create(_ context.Context, a *domain.Accommodation) (*domain.Accommodation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v := *a
	v.ID = newID()
	r.s.accommodations[v.ID] = v
	return &v, nil
}

func (r accommodationRepo) FindByID(_ context.Context, id string) (*domain.Accommodation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.accommodations[id]
	if !ok {
		return nil, domain.ErrAccommodationNotFound
	}
	return &v, nil
}

func (r accommodationRepo) List(_ context.Context, f ports.AccommodationFilter) ([]*domain.Accommodation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	city := strings.ToLower(f.City)
	keep := func(a *domain.Accommodation) bool {
		if f.OwnerID != "" && a.Owner != f.OwnerID {
			return false
		}
		if city != "" && !strings.Contains(strings.ToLower(a.City), city) {
			return false
		}
		if f.MinPrice != nil && a.PricePerNight < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && a.PricePerNight > *f.MaxPrice {
			return false
		}
		return true
	}
	return sorted(r.s.accommodations, keep, func(a, b *domain.Accommodation) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}

func (r accommodationRepo) Update(_ context.Context, a *domain.Accommodation) (*domain.Accommodation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accommodations[a.ID]; !ok {
		return nil, domain.ErrAccommodationNotFound
	}
	v := *a
	r.s.accommodations[v.ID] = v
	return &v, nil
}

func (r accommodationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accommodations[id]; !ok {
		return domain.ErrAccommodationNotFound
	}
	delete(r.s.accommodations, id)
	return nil
}
