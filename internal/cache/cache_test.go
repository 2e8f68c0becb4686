// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("key", "value")
	got, ok := c.Get("key")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if got != "value" {
		t.Errorf("Expected %q, got %v", "value", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	if _, ok := c.Get("absent"); ok {
		t.Error("Expected cache miss for absent key")
	}
	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("key", 42)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("Expected expired entry to miss")
	}
	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Expected eager eviction on expired read, got %d evictions", stats.Evictions)
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("user:1:stats", 1)
	c.Set("user:1:activity", 2)
	c.Set("user:2:stats", 3)

	removed := c.DeletePrefix("user:1:")
	if removed != 2 {
		t.Errorf("Expected 2 entries removed, got %d", removed)
	}
	if _, ok := c.Get("user:1:stats"); ok {
		t.Error("Expected user 1 entries to be gone")
	}
	if _, ok := c.Get("user:2:stats"); !ok {
		t.Error("Expected user 2 entries to survive")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d entries", c.Len())
	}
}

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("user:1:stats", "dashboard", 6)
	k2 := Key("user:1:stats", "dashboard", 6)
	if k1 != k2 {
		t.Errorf("Expected deterministic keys, got %q and %q", k1, k2)
	}
	if !strings.HasPrefix(k1, "user:1:stats:") {
		t.Errorf("Expected key to keep its prefix, got %q", k1)
	}

	k3 := Key("user:1:stats", "dashboard", 7)
	if k1 == k3 {
		t.Error("Expected different params to produce different keys")
	}
}

func TestKey_NoParams(t *testing.T) {
	if got := Key("plain"); got != "plain" {
		t.Errorf("Expected bare prefix, got %q", got)
	}
}
