package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type entry struct {
	ID    string   `json:"id"`
	Years []int    `json:"years"`
	Tags  []string `json:"tags,omitempty"`
}

func TestKeys(t *testing.T) {
	if got := DailySongKey("2024-3-15"); got != "daily-song-2024-3-15" {
		t.Errorf("DailySongKey() = %q", got)
	}
	if got := SearchKey("queen"); got != "search-queen" {
		t.Errorf("SearchKey() = %q", got)
	}
}

// exercise runs the shared behaviour every Cache must have.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got entry
	ok, err := c.Get(ctx, "absent", &got)
	if err != nil || ok {
		t.Fatalf("Get(absent) = %v, %v; want miss", ok, err)
	}

	want := entry{ID: "t1", Years: []int{1977, 1978}}
	if err := c.Set(ctx, "k", want, time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	ok, err = c.Get(ctx, "k", &got)
	if err != nil || !ok {
		t.Fatalf("Get(k) = %v, %v; want hit", ok, err)
	}
	if got.ID != want.ID || len(got.Years) != 2 || got.Years[1] != 1978 {
		t.Errorf("Get(k) decoded %+v, want %+v", got, want)
	}

	// Mutating the decoded value must not leak into the cache.
	got.Years[0] = 0
	var again entry
	if _, err := c.Get(ctx, "k", &again); err != nil {
		t.Fatal(err)
	}
	if again.Years[0] != 1977 {
		t.Errorf("cached value was mutated through a previous Get: %+v", again)
	}

	var empty []entry
	if err := c.Set(ctx, "empty", []entry{}, time.Hour); err != nil {
		t.Fatal(err)
	}
	ok, err = c.Get(ctx, "empty", &empty)
	if err != nil || !ok || empty == nil || len(empty) != 0 {
		t.Errorf("empty slice should round-trip as a hit, got %v %v %#v", ok, err, empty)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory(DefaultTTL, time.Minute)
	defer m.Close()
	exercise(t, m)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(DefaultTTL, time.Minute)
	ctx := context.Background()

	if err := m.Set(ctx, "short", entry{ID: "x"}, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	var got entry
	if ok, _ := m.Get(ctx, "short", &got); ok {
		t.Error("entry should have expired")
	}
}

func TestRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := ConnectRedis(context.Background(), RedisOptions{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}
	defer r.Close()

	exercise(t, r)

	if !srv.Exists(keyPrefix + "k") {
		t.Errorf("expected key %q in redis", keyPrefix+"k")
	}
	if ttl := srv.TTL(keyPrefix + "k"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	srv.FastForward(2 * time.Hour)
	var got entry
	if ok, err := r.Get(context.Background(), "k", &got); ok || err != nil {
		t.Errorf("Get after expiry = %v, %v; want miss", ok, err)
	}
}

func TestRedisDecodeError(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := ConnectRedis(context.Background(), RedisOptions{Addr: srv.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	srv.Set(keyPrefix+"bad", "not json")
	var got entry
	if ok, err := r.Get(context.Background(), "bad", &got); ok || err == nil {
		t.Errorf("Get(bad) = %v, %v; want decode error", ok, err)
	}
}

func TestConnectRedisFailure(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	if _, err := ConnectRedis(context.Background(), RedisOptions{Addr: addr}); err == nil {
		t.Error("ConnectRedis() to a closed server should fail")
	}
}
