package service

import (
	"context"
	"errors"
	"testing"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

func TestMessageService_Send(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.messages.Send(ctx, f.alice, f.bob.ID, "  hello  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Content != "hello" || m.Sender != f.alice.ID || m.Recipient != f.bob.ID {
		t.Fatalf("unexpected message: %+v", m)
	}

	if _, err := f.messages.Send(ctx, f.alice, f.bob.ID, "   "); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for blank content, got %v", err)
	}
	if _, err := f.messages.Send(ctx, f.alice, "", "hi"); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for missing recipient, got %v", err)
	}
	if _, err := f.messages.Send(ctx, f.alice, missingID, "hi"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMessageService_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carol := f.user(t, "carol@example.com", domain.RoleUser)

	m, err := f.messages.Send(ctx, f.alice, f.bob.ID, "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	for _, p := range []*domain.User{f.alice, f.bob} {
		if _, err := f.messages.Get(ctx, p, m.ID); err != nil {
			t.Fatalf("participant %s can not read: %v", p.Email, err)
		}
	}
	if _, err := f.messages.Get(ctx, carol, m.ID); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected outsider to get ErrMessageNotFound, got %v", err)
	}
	if err := f.messages.Delete(ctx, carol, m.ID); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected outsider delete to get ErrMessageNotFound, got %v", err)
	}
	if err := f.messages.Delete(ctx, f.bob, m.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected recipient delete to get ErrForbidden, got %v", err)
	}
	if err := f.messages.Delete(ctx, f.alice, m.ID); err != nil {
		t.Fatalf("sender delete failed: %v", err)
	}
	if _, err := f.messages.Get(ctx, f.bob, m.ID); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected deleted message to be gone, got %v", err)
	}
}

func TestMessageService_Conversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carol := f.user(t, "carol@example.com", domain.RoleUser)

	for _, step := range []struct {
		from, to *domain.User
		text     string
	}{
		{f.alice, f.bob, "one"},
		{f.bob, f.alice, "two"},
		{carol, f.alice, "unrelated"},
		{f.alice, f.bob, "three"},
	} {
		if _, err := f.messages.Send(ctx, step.from, step.to.ID, step.text); err != nil {
			t.Fatalf("send %q: %v", step.text, err)
		}
	}

	conv, err := f.messages.Conversation(ctx, f.bob, f.alice.ID)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(conv) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(conv))
	}
	for i, m := range conv {
		if m.Content != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], m.Content)
		}
	}

	all, err := f.messages.List(ctx, f.alice)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected alice to see 4 messages, got %d (%v)", len(all), err)
	}
}
