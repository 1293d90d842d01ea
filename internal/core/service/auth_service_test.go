package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
	"github.com/octodock/marketplace-api/internal/infrastructure/db/memory"
)

const testPassword = "Passw0rd!"

type countingLimiter struct {
	max      int
	failures map[string]int
	err      error
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, failures: map[string]int{}}
}

func (l *countingLimiter) Allowed(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[key] < l.max, nil
}

func (l *countingLimiter) Fail(_ context.Context, key string) error {
	l.failures[key]++
	return l.err
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	delete(l.failures, key)
	return l.err
}

func newTestAuthService(t *testing.T, opts ...AuthOption) (*AuthService, *TokenManager, ports.UserRepository) {
	t.Helper()
	repo := memory.NewStore().Users()
	tokens := NewTokenManager("secret", time.Hour)
	opts = append([]AuthOption{WithHashCost(bcrypt.MinCost)}, opts...)
	return NewAuthService(repo, tokens, zerolog.Nop(), opts...), tokens, repo
}

func register(t *testing.T, svc *AuthService, name, email string, role domain.Role) (string, *domain.User) {
	t.Helper()
	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: name, Email: email, Password: testPassword, Role: role,
	})
	if err != nil {
		t.Fatalf("Register(%s) returned error: %v", email, err)
	}
	return token, user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, tokens, repo := newTestAuthService(t)

	token, user := register(t, svc, "Alice", "  Alice@Example.com ", "")
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %q", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatalf("password hash must not be returned")
	}

	id, err := tokens.Verify(token)
	if err != nil || id != user.ID {
		t.Fatalf("token does not identify the new user: id=%q err=%v", id, err)
	}

	stored, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)) != nil {
		t.Fatalf("stored hash does not match password")
	}
}

func TestAuthService_Register_Host(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, user := register(t, svc, "Hank", "hank@example.com", domain.RoleHost)
	if user.Role != domain.RoleHost {
		t.Fatalf("expected host role, got %q", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	cases := map[string]ports.RegisterInput{
		"missing name":   {Email: "a@b.io", Password: testPassword},
		"bad email":      {Name: "A", Email: "not-an-email", Password: testPassword},
		"email no tld":   {Name: "A", Email: "a@b", Password: testPassword},
		"short password": {Name: "A", Email: "a@b.io", Password: "Pw0"},
		"no upper":       {Name: "A", Email: "a@b.io", Password: "passw0rd!"},
		"no lower":       {Name: "A", Email: "a@b.io", Password: "PASSW0RD!"},
		"no digit":       {Name: "A", Email: "a@b.io", Password: "Password!"},
		"admin role":     {Name: "A", Email: "a@b.io", Password: testPassword, Role: domain.RoleAdmin},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), in)
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_ReportsEveryProblem(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "nope", Password: "x"})
	if got := len(domain.ValidationDetails(err)); got != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", got, domain.ValidationDetails(err))
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	register(t, svc, "Alice", "alice@example.com", "")

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Other", Email: "ALICE@example.com", Password: testPassword,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict kind, got %s", domain.KindOf(err))
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)
	_, registered := register(t, svc, "Alice", "alice@example.com", "")

	token, user, err := svc.Login(context.Background(), "Alice@Example.com", testPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID || user.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if id, err := tokens.Verify(token); err != nil || id != registered.ID {
		t.Fatalf("token does not verify: %v", err)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	register(t, svc, "Alice", "alice@example.com", "")

	if _, _, err := svc.Login(context.Background(), "", ""); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "Wrong0ne"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", testPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := newCountingLimiter(2)
	svc, _, _ := newTestAuthService(t, WithLoginLimiter(limiter))
	register(t, svc, "Alice", "alice@example.com", "")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Login(ctx, "alice@example.com", "Wrong0ne"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", testPassword); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	limiter.failures = map[string]int{"alice@example.com": 1}
	if _, _, err := svc.Login(ctx, "alice@example.com", testPassword); err != nil {
		t.Fatalf("expected login to succeed below the limit: %v", err)
	}
	if _, ok := limiter.failures["alice@example.com"]; ok {
		t.Fatalf("expected successful login to reset the counter")
	}
}

func TestAuthService_Login_LimiterErrorAllowsAttempt(t *testing.T) {
	limiter := newCountingLimiter(1)
	limiter.err = errors.New("redis down")
	svc, _, _ := newTestAuthService(t, WithLoginLimiter(limiter))
	register(t, svc, "Alice", "alice@example.com", "")

	if _, _, err := svc.Login(context.Background(), "alice@example.com", testPassword); err != nil {
		t.Fatalf("expected limiter failure to be ignored, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, alice := register(t, svc, "Alice", "alice@example.com", "")
	register(t, svc, "Bob", "bob@example.com", "")
	ctx := context.Background()

	name := "Alicia"
	updated, err := svc.UpdateProfile(ctx, alice, ports.ProfilePatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != "Alicia" || updated.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	taken := "Bob@example.com"
	if _, err := svc.UpdateProfile(ctx, alice, ports.ProfilePatch{Email: &taken}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	weak := "short"
	if _, err := svc.UpdateProfile(ctx, alice, ports.ProfilePatch{Password: &weak}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	fresh := "N3wPassword"
	if _, err := svc.UpdateProfile(ctx, alice, ports.ProfilePatch{Password: &fresh}); err != nil {
		t.Fatalf("password change failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", fresh); err != nil {
		t.Fatalf("expected login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", testPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc, _, repo := newTestAuthService(t)
	_, alice := register(t, svc, "Alice", "alice@example.com", "")
	ctx := context.Background()

	if err := svc.DeleteAccount(ctx, alice); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}
	if _, err := repo.FindByID(ctx, alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
	if _, err := svc.Profile(ctx, alice); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.DeleteAccount(ctx, nil); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthService_ListUsers_AdminOnly(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, alice := register(t, svc, "Alice", "alice@example.com", "")
	ctx := context.Background()

	if _, err := svc.ListUsers(ctx, alice); !errors.Is(err, domain.ErrRoleForbidden) {
		t.Fatalf("expected ErrRoleForbidden, got %v", err)
	}

	admin := &domain.User{ID: "admin", Role: domain.RoleAdmin}
	users, err := svc.ListUsers(ctx, admin)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 1 || users[0].PasswordHash != "" {
		t.Fatalf("unexpected users: %+v", users)
	}
}
