package memory

import (
	"context"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

type wishlistRepo struct{ s *Store }

func (r wishlistRepo) Create(_ context.Context, w *domain.WishlistItem) (*domain.WishlistItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.wishlist {
		if existing.User == w.User && existing.Accommodation == w.Accommodation {
			return nil, domain.ErrAlreadyWishlisted
		}
	}
	v := *w
	v.ID = newID()
	r.s.wishlist[v.ID] = v
	return &v, nil
}

func (r wishlistRepo) FindByID(_ context.Context, id string) (*domain.WishlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.wishlist[id]
	if !ok {
		return nil, domain.ErrWishlistItemNotFound
	}
	return &v, nil
}

func (r wishlistRepo) ListByUser(_ context.Context, userID string) ([]*domain.WishlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sorted(r.s.wishlist,
		func(w *domain.WishlistItem) bool { return w.User == userID },
		func(a, b *domain.WishlistItem) bool { return a.CreatedAt.Before(b.CreatedAt) },
	), nil
}

func (r wishlistRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wishlist[id]; !ok {
		return domain.ErrWishlistItemNotFound
	}
	delete(r.s.wishlist, id)
	return nil
}
