package redis

import (
	"testing"
	"time"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Addr != "localhost:6379" {
		t.Fatalf("unexpected default addr: %q", cfg.Addr)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.Timeout)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := Config{Addr: "cache.internal:6379", DB: 2, Timeout: time.Second}.withDefaults()
	opts := clientOptions(cfg)

	if opts.Addr != "cache.internal:6379" || opts.DB != 2 {
		t.Fatalf("connection settings not applied: %+v", opts)
	}
	if opts.ClientName != "finance-tracker" {
		t.Fatalf("client name not set: %q", opts.ClientName)
	}
	if opts.DialTimeout != time.Second {
		t.Fatalf("dial timeout not set: %v", opts.DialTimeout)
	}
}
