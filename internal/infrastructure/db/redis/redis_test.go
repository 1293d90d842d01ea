package redis

import (
	"context"
	"testing"
	"time"
)

func TestConnect_RequiresAddr(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatal("expected an error without an address")
	}
}

func TestConnect_UnreachableFails(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", PingTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping to fail against a closed port")
	}
}

func TestConfigOptions(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "pw", DB: 2, PoolSize: 5}.options()
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 || opts.PoolSize != 5 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
