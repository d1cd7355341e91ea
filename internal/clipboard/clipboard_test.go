package clipboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil { t.Fatalf("miniredis: %v", err) }
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	var c Clipboard = NewMemory()
	if s, err := c.ReadText(ctx); err != nil || s != "" {
		t.Fatalf("empty read = %q, %v", s, err)
	}
	if err := c.WriteText(ctx, "8/8/8/8/8/8/8/8 w - - 0 1"); err != nil { t.Fatal(err) }
	if s, _ := c.ReadText(ctx); s != "8/8/8/8/8/8/8/8 w - - 0 1" {
		t.Fatalf("read = %q", s)
	}
}

func TestRedisRoundTripAndTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	c := NewRedis(rdb, "u1", time.Minute)

	if s, err := c.ReadText(ctx); err != nil || s != "" {
		t.Fatalf("empty read = %q, %v", s, err)
	}
	if err := c.WriteText(ctx, "fen-one"); err != nil { t.Fatalf("WriteText: %v", err) }
	if s, err := c.ReadText(ctx); err != nil || s != "fen-one" {
		t.Fatalf("read = %q, %v", s, err)
	}
	if ttl := mr.TTL("clip:u1"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}

	other := c.ForOwner("u2")
	if s, _ := other.ReadText(ctx); s != "" {
		t.Fatalf("owners share clipboard: %q", s)
	}

	mr.FastForward(2 * time.Minute)
	if s, _ := c.ReadText(ctx); s != "" {
		t.Fatalf("expired clipboard still readable: %q", s)
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, err := ParseRedisURL("redis://:secret@cache.local:6380/3")
	if err != nil { t.Fatalf("ParseRedisURL: %v", err) }
	if opts.Addr != "cache.local:6380" || opts.Password != "secret" || opts.DB != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	opts, err = ParseRedisURL("redis://localhost")
	if err != nil || opts.Addr != "localhost:6379" || opts.DB != 0 {
		t.Fatalf("defaults: %+v %v", opts, err)
	}
	for _, bad := range []string{"http://x", "redis:///0", "redis://h/abc"} {
		if _, err := ParseRedisURL(bad); err == nil {
			t.Errorf("ParseRedisURL(%q) should fail", bad)
		}
	}
}
