package patients

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	if _, ok, _ := cache.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(ctx, "forever", []byte("f"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok || string(value) != "v" {
		t.Errorf("Get() = %q, %v, %v", value, ok, err)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("expected entry to expire")
	}
	if _, ok, _ := cache.Get(ctx, "forever"); !ok {
		t.Error("entry without ttl should not expire")
	}
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	cache, err := NewRedisCache(ctx, "redis://"+mr.Addr(), "care:")
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer cache.Close()

	if _, ok, err := cache.Get(ctx, "k"); ok || err != nil {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("care:k") {
		t.Error("expected prefixed key in redis")
	}

	value, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok || string(value) != "v" {
		t.Errorf("Get() = %q, %v, %v", value, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	tests := []struct {
		name        string
		redisURL    string
		errContains string
	}{
		{"Invalid URL", "invalid-url", "failed to parse"},
		{"Invalid scheme", "http://localhost:6379", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRedisCache(context.Background(), tt.redisURL, "")
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err, tt.errContains)
			}
		})
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(context.Background(), "redis://"+addr, "")
	if err == nil || !strings.Contains(err.Error(), "failed to connect") {
		t.Errorf("expected connection error, got %v", err)
	}
}
