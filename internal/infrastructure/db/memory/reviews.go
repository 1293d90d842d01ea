package memory

import (
	"context"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reviews {
		if existing.User == rv.User && existing.Accommodation == rv.Accommodation {
			return nil, domain.ErrAlreadyReviewed
		}
	}
	v := *rv
	v.ID = newID()
	r.s.reviews[v.ID] = v
	return &v, nil
}

func (r reviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return &v, nil
}

func (r reviewRepo) List(_ context.Context, f ports.ReviewFilter) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	keep := func(rv *domain.Review) bool {
		return (f.AccommodationID == "" || rv.Accommodation == f.AccommodationID) &&
			(f.UserID == "" || rv.User == f.UserID)
	}
	return sorted(r.s.reviews, keep, func(a, b *domain.Review) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r reviewRepo) Update(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[rv.ID]; !ok {
		return nil, domain.ErrReviewNotFound
	}
	v := *rv
	r.s.reviews[v.ID] = v
	return &v, nil
}

func (r reviewRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}
