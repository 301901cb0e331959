// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get = %q, want %q", got, "value")
	}
}

func TestMemory_Miss(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	if err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "short", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "noticias:1", []byte("a"), 0)
	_ = c.Set(ctx, "noticias:2", []byte("b"), 0)
	_ = c.Set(ctx, "config:site", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "noticias:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	if _, err := c.Get(ctx, "noticias:1"); err != ErrCacheMiss {
		t.Errorf("expected noticias:1 gone, got %v", err)
	}
	if _, err := c.Get(ctx, "config:site"); err != nil {
		t.Errorf("config:site should survive, got %v", err)
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "key", []byte("original"), 0)

	got, _ := c.Get(ctx, "key")
	got[0] = 'X'

	again, _ := c.Get(ctx, "key")
	if !bytes.Equal(again, []byte("original")) {
		t.Errorf("stored value mutated: %q", again)
	}
}

func TestMemory_Closed(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	c.Close()

	ctx := context.Background()
	if _, err := c.Get(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("Get after close: expected ErrCacheClosed, got %v", err)
	}
	if err := c.Set(ctx, "key", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("Set after close: expected ErrCacheClosed, got %v", err)
	}
}

func TestMemory_Stats(t *testing.T) {
	c := NewMemory(time.Minute, 0, 0)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "key", []byte("v"), 0)
	_, _ = c.Get(ctx, "key")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Items != 1 {
		t.Errorf("Items = %d, want 1", stats.Items)
	}
}

func TestMemory_MaxEntries(t *testing.T) {
	c := NewMemory(time.Minute, 0, 2)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if items := c.Stats().Items; items != 2 {
		t.Errorf("Items = %d, want 2", items)
	}
	if got, err := c.Get(ctx, "c"); err != nil || !bytes.Equal(got, []byte("3")) {
		t.Errorf("newest entry: got %q, %v", got, err)
	}

	// Overwriting an existing key never evicts.
	_ = c.Set(ctx, "c", []byte("3b"), 0)
	if items := c.Stats().Items; items != 2 {
		t.Errorf("Items after overwrite = %d, want 2", items)
	}
}

func TestMemory_MaxEntriesPrefersExpired(t *testing.T) {
	c := NewMemory(time.Minute, 0, 2)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "stale", []byte("1"), 10*time.Millisecond)
	_ = c.Set(ctx, "fresh", []byte("2"), 0)
	time.Sleep(20 * time.Millisecond)

	_ = c.Set(ctx, "new", []byte("3"), 0)
	if _, err := c.Get(ctx, "fresh"); err != nil {
		t.Errorf("live entry evicted while an expired one existed: %v", err)
	}
	if _, err := c.Get(ctx, "new"); err != nil {
		t.Errorf("new entry missing: %v", err)
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*Memory); !ok {
		t.Errorf("expected *Memory backend, got %T", c)
	}
}
