package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewLoginLimiterDefaults(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	if l.maxAttempts != DefaultMaxAttempts {
		t.Fatalf("expected %d max attempts, got %d", DefaultMaxAttempts, l.maxAttempts)
	}
	if l.window != DefaultWindow {
		t.Fatalf("expected %s window, got %s", DefaultWindow, l.window)
	}

	l = NewLoginLimiter(nil, 3, time.Minute)
	if l.maxAttempts != 3 || l.window != time.Minute {
		t.Fatalf("unexpected limiter settings: %d %s", l.maxAttempts, l.window)
	}
}

func TestLoginLimiterKey(t *testing.T) {
	l := NewLoginLimiter(nil, 1, time.Second)
	if got := l.key("a@b.io"); got != "login_attempts:a@b.io" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestLoginLimiterUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewLoginLimiter(client, 1, time.Second)
	ctx := context.Background()
	if _, err := l.Allowed(ctx, "a@b.io"); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if err := l.Fail(ctx, "a@b.io"); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if err := l.Reset(ctx, "a@b.io"); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
}
