package memory

import (
	"context"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v := *m
	v.ID = newID()
	r.s.messages[v.ID] = v
	return &v, nil
}

func (r messageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return &v, nil
}

func (r messageRepo) ListConversation(_ context.Context, a, b string) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	keep := func(m *domain.Message) bool {
		return (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a)
	}
	return sorted(r.s.messages, keep, oldestFirst), nil
}

func (r messageRepo) ListForUser(_ context.Context, userID string) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	keep := func(m *domain.Message) bool { return m.Sender == userID || m.Recipient == userID }
	return sorted(r.s.messages, keep, oldestFirst), nil
}

func (r messageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[id]; !ok {
		return domain.ErrMessageNotFound
	}
	delete(r.s.messages, id)
	return nil
}

// Ids break ties so messages created within one clock tick keep insertion
// order: ObjectIDs grow with a per-process counter.
func oldestFirst(a, b *domain.Message) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
