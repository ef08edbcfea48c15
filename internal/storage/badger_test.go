package storage

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestBadger(t *testing.T, dir string) *BadgerEngine {
	t.Helper()
	engine, err := NewBadgerEngine(DefaultBadgerConfig(dir), slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	engine := newTestBadger(t, t.TempDir())
	defer engine.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("k"), []byte("v")); err != nil {
			t.Fatal(err)
		}
		got, err := engine.Get(ctx, []byte("k"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "v" {
			t.Errorf("expected v, got %s", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, err := engine.Get(ctx, []byte("missing")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = engine.Set(ctx, []byte("d"), []byte("x"))
		if err := engine.Delete(ctx, []byte("d")); err != nil {
			t.Fatal(err)
		}
		if _, err := engine.Get(ctx, []byte("d")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})

	t.Run("Scan with early stop", func(t *testing.T) {
		for _, k := range []string{"token/a", "token/b", "token/c", "meta"} {
			_ = engine.Set(ctx, []byte(k), []byte("x"))
		}
		count := 0
		err := engine.Scan(ctx, []byte("token/"), func(key, value []byte) bool {
			count++
			return count < 2
		})
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("expected 2 iterations, got %d", count)
		}
	})
}

func TestBadgerEngine_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := NewSlot(newTestBadger(t, dir), "http://localhost:8080")
	if err := first.Set(ctx, "T1"); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := NewSlot(newTestBadger(t, dir), "http://localhost:8080")
	defer second.Close()
	got, err := second.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "T1" {
		t.Errorf("Get() after reopen = %q, want %q", got, "T1")
	}
}

func TestBadgerEngine_CloseTwice(t *testing.T) {
	engine := newTestBadger(t, t.TempDir())
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestBadgerEngine_RegisterMetrics(t *testing.T) {
	engine := newTestBadger(t, t.TempDir())
	defer engine.Close()

	reg := prometheus.NewRegistry()
	engine.RegisterMetrics(reg)

	if n := testutil.CollectAndCount(reg); n != 2 {
		t.Errorf("collected %d metrics, want 2", n)
	}
}

func TestBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(BadgerConfig{}, nil); err == nil {
		t.Error("NewBadgerEngine without dir should fail")
	}
}
