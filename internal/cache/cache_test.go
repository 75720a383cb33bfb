package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"tally/internal/log"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite failed: %q", v)
	}
	if s := c.Stats(); s.Hits != 2 || s.Misses != 1 || s.Size != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // b is now the oldest
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.advance(30 * time.Second)
	c.Set("b", "3") // refreshes b's expiry
	clock.advance(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Errorf("CleanExpired removed %d, want 0", n)
	}
	clock.advance(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired removed %d, want 1", n)
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Errorf("size after purge = %d", c.Size())
	}
}

func TestManager_Sweep(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})
	m := NewManager(logger)

	c1, clock1 := newTestCache(10, time.Second)
	c2, _ := newTestCache(10, time.Hour)
	c1.Set("x", "1")
	c2.Set("y", "2")
	m.Register(c1)
	m.Register(c2)

	clock1.advance(2 * time.Second)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
