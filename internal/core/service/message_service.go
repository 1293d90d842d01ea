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

// MessageService handles direct messages. Unlike other resources, a message
// the caller does not participate in is reported as not found rather than
// forbidden, so its existence is never confirmed to outsiders.
type MessageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, log zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, log: log}
}

func (s *MessageService) Send(ctx context.Context, principal *domain.User, recipientID, content string) (*domain.Message, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	content = strings.TrimSpace(content)

	var problems []string
	if recipientID == "" {
		problems = append(problems, "recipientId is required")
	}
	if content == "" {
		problems = append(problems, "content is required and must be a non-empty string")
	}
	if len(problems) > 0 {
		return nil, domain.Validation(problems...)
	}

	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		return nil, err
	}

	created, err := s.messages.Create(ctx, &domain.Message{
		Sender:    principal.ID,
		Recipient: recipientID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.log.Debug().Str("message_id", created.ID).Str("sender", principal.ID).Msg("message sent")
	return created, nil
}

func (s *MessageService) Get(ctx context.Context, principal *domain.User, id string) (*domain.Message, error) {
	return s.visible(ctx, principal, id)
}

func (s *MessageService) List(ctx context.Context, principal *domain.User) ([]*domain.Message, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	items, err := s.messages.ListForUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

// Conversation returns the messages between the caller and otherUserID,
// oldest first.
func (s *MessageService) Conversation(ctx context.Context, principal *domain.User, otherUserID string) ([]*domain.Message, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	items, err := s.messages.ListConversation(ctx, principal.ID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	return items, nil
}

// Delete removes a message. Only the sender may delete; the recipient gets
// forbidden and anyone else gets not found.
func (s *MessageService) Delete(ctx context.Context, principal *domain.User, id string) error {
	m, err := s.visible(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := guard.RequireOwner(principal, m); err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *MessageService) visible(ctx context.Context, principal *domain.User, id string) (*domain.Message, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	m, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !guard.IsParticipant(principal, m.Participants()...) {
		return nil, domain.ErrMessageNotFound
	}
	return m, nil
}
