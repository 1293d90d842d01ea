package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/guard"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`\d`)
)

const (
	msgInvalidEmail = "valid email is required"
	msgWeakPassword = "password must be at least 8 characters long and include uppercase, lowercase and a number"
)

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// StrongPassword reports whether pwd is at least 8 characters and mixes
// upper case, lower case and digits.
func StrongPassword(pwd string) bool {
	return len(pwd) >= 8 && lowerPattern.MatchString(pwd) && upperPattern.MatchString(pwd) && digitPattern.MatchString(pwd)
}

// AuthService implements registration, login and self-service account
// management.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	limiter  ports.LoginLimiter
	hashCost int
	log      zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginLimiter throttles failed logins.
func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:     repo,
		tokens:   tokens,
		limiter:  noopLimiter{},
		hashCost: bcrypt.DefaultCost,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := domain.NormalizeEmail(in.Email)

	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !ValidEmail(email) {
		problems = append(problems, msgInvalidEmail)
	}
	if !StrongPassword(in.Password) {
		problems = append(problems, msgWeakPassword)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleHost {
		problems = append(problems, "role must be one of: user host")
	}
	if len(problems) > 0 {
		return "", nil, domain.Validation(problems...)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return "", nil, domain.Internal("hash password", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return token, created.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.Validation("please provide email and password")
	}

	allowed, err := s.limiter.Allowed(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter check failed, allowing attempt")
	} else if !allowed {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login limiter")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user.Public(), nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// Profile reloads the caller's account.
func (s *AuthService) Profile(ctx context.Context, principal *domain.User) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}
	user, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user.Public(), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, principal *domain.User, patch ports.ProfilePatch) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrMissingToken
	}

	var problems []string
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		problems = append(problems, "name must not be empty")
	}
	var email string
	if patch.Email != nil {
		email = domain.NormalizeEmail(*patch.Email)
		if !ValidEmail(email) {
			problems = append(problems, msgInvalidEmail)
		}
	}
	if patch.Password != nil && !StrongPassword(*patch.Password) {
		problems = append(problems, msgWeakPassword)
	}
	if len(problems) > 0 {
		return nil, domain.Validation(problems...)
	}

	user, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil && email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update profile: %w", err)
		}
		user.Email = email
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.hashCost)
		if err != nil {
			return nil, domain.Internal("hash password", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated.Public(), nil
}

// DeleteAccount removes the caller's account. Tokens already issued stop
// working because authentication reloads the principal on every request.
func (s *AuthService) DeleteAccount(ctx context.Context, principal *domain.User) error {
	if principal == nil {
		return domain.ErrMissingToken
	}
	if err := s.repo.Delete(ctx, principal.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info().Str("user_id", principal.ID).Msg("user deleted")
	return nil
}

// ListUsers returns every account. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, principal *domain.User) ([]*domain.User, error) {
	if err := guard.RequireRole(principal, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

type noopLimiter struct{}

func (noopLimiter) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) Fail(context.Context, string) error            { return nil }
func (noopLimiter) Reset(context.Context, string) error           { return nil }
