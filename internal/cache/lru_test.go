package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[string](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get on empty cache returned a value")
	}

	c.Set("a", "1")
	got, ok := c.Get("a")
	if !ok || got != "1" {
		t.Fatalf("Get(a) = %q, %v", got, ok)
	}

	c.Set("a", "2")
	got, _ = c.Get("a")
	if got != "2" {
		t.Errorf("Get(a) after overwrite = %q, want 2", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRU[int](4, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry still served")
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d after expiry read, want 0", c.Size())
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c := NewLRU[int](4, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("a") // deleting twice is fine

	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still present")
	}

	c.Purge()
	if c.Size() != 0 {
		t.Errorf("Size after Purge = %d, want 0", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("purged entry still present")
	}
}
