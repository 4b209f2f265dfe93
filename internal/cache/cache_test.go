package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("k", 42, time.Minute)

	v, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if v.(int) != 42 {
		t.Errorf("got %v, want 42", v)
	}
}

func TestGet_Missing(t *testing.T) {
	c := New()
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestGet_ExpiredIsPurged(t *testing.T) {
	c := New()
	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Set("k", "v", time.Second)
	clock = clock.Add(2 * time.Second)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not purged, len = %d", c.Len())
	}
}

func TestSet_NonPositiveTTLRemoves(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	c.Set("k", "v", 0)

	if _, ok := c.Get("k"); ok {
		t.Error("zero TTL should remove the key")
	}
}

func TestSweep(t *testing.T) {
	c := New()
	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Set("stale", 1, time.Second)
	c.Set("fresh", 2, time.Hour)
	clock = clock.Add(2 * time.Second)

	if removed := c.Sweep(); removed != 1 {
		t.Errorf("swept %d entries, want 1", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry should survive the sweep")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}
