package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisEngine_Slot(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	slot := NewSlot(NewRedisEngineFromClient(client, "", 0), "http://localhost:8080")
	defer slot.Close()

	if err := slot.Set(ctx, "T1"); err != nil {
		t.Fatal(err)
	}
	if v, err := mr.Get("pocket:token/http://localhost:8080"); err != nil || v != "T1" {
		t.Errorf("redis value = %q, %v; want T1", v, err)
	}

	got, err := slot.Get(ctx)
	if err != nil || got != "T1" {
		t.Errorf("Get() = %q, %v; want T1", got, err)
	}

	if err := slot.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("pocket:token/http://localhost:8080") {
		t.Error("Clear() left the key in redis")
	}
}

func TestRedisEngine_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	engine := NewRedisEngineFromClient(client, "p:", time.Hour)
	if err := engine.Set(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("p:k"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() after expiry = %v, want ErrKeyNotFound", err)
	}
}

func TestRedisEngine_ScanStripsPrefix(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	engine := NewRedisEngineFromClient(client, "", 0)
	_ = engine.Set(ctx, []byte("token/a"), []byte("1"))
	_ = engine.Set(ctx, []byte("token/b"), []byte("2"))

	origins, err := ClearAll(ctx, engine)
	if err != nil {
		t.Fatal(err)
	}
	if len(origins) != 2 {
		t.Errorf("ClearAll() = %v, want 2 origins", origins)
	}
}

func TestNewRedisEngine_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisEngine(ctx, RedisConfig{Addr: addr}); err == nil {
		t.Error("NewRedisEngine() to a closed server should fail")
	}
}
