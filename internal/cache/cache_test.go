package cache

import "testing"

func TestGetSet(t *testing.T) {
	c := New[string, int](4, 0)

	if _, ok := c.Get("a"); ok {
		t.Error("empty cache returned a value")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = (%d, %t), want (1, true)", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New[int, int](2, 0)

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3) // evicts 1, the least recently used

	if _, ok := c.Get(1); ok {
		t.Error("oldest entry survived past capacity")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("entry 2 evicted early")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("entry 3 missing")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestRecentUseProtectsEntry(t *testing.T) {
	c := New[int, int](2, 0)

	c.Set(1, 1)
	c.Set(2, 2)
	c.Get(1) // touch 1 so 2 is now least recently used
	c.Set(3, 3)

	if _, ok := c.Get(1); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := c.Get(2); ok {
		t.Error("least recently used entry survived")
	}
}

func TestPurge(t *testing.T) {
	c := New[string, string](4, 0)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Purge")
	}
}
