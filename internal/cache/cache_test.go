package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("hit on empty cache")
	}

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v; want 1, true", v, ok)
	}

	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Errorf("overwrite: Get(a) = %q, want 2", v)
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](3, time.Minute)
	for i := 1; i <= 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	// Touch k1 so k2 becomes the eviction candidate.
	c.Get("k1")
	c.Set("k4", 4)

	if _, ok := c.Get("k2"); ok {
		t.Error("k2 should have been evicted")
	}
	for _, key := range []string{"k1", "k3", "k4"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry served")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired = %d, want 1 (Get already dropped the other)", n)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d after cleanup, want 0", c.Size())
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("dashboard:1:2025-06", 1)
	c.Set("dashboard:1:2025-07", 2)
	c.Set("dashboard:12:2025-06", 3)

	if n := c.InvalidatePrefix("dashboard:1:"); n != 2 {
		t.Errorf("invalidated %d entries, want 2", n)
	}
	if _, ok := c.Get("dashboard:1:2025-06"); ok {
		t.Error("invalidated entry still served")
	}
	if _, ok := c.Get("dashboard:12:2025-06"); !ok {
		t.Error("other user's entry must survive the prefix invalidation")
	}
}
