package cache

import (
	"testing"
	"time"
)

func TestGetInstance(t *testing.T) {
	inst := GetInstance()
	if inst == nil {
		t.Fatal("GetInstance returned nil")
	}
	if GetInstance() != inst {
		t.Error("GetInstance should return same instance")
	}
}

func TestSet_Get(t *testing.T) {
	c := NewCache()
	c.Set("k", "val", 0, nil)
	got, ok := c.Get("k")
	if !ok || got != "val" {
		t.Errorf("Get = %v, %v; want val, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get missing key: want false")
	}
}

func TestSet_TTLExpires(t *testing.T) {
	c := NewCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	c.Set("k", 1, time.Minute, nil)

	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestDeleteByTag(t *testing.T) {
	c := NewCache()
	c.Set("a", 1, 0, []string{"stock"})
	c.Set("b", 2, 0, []string{"stock", "sales"})
	c.Set("c", 3, 0, []string{"sales"})

	c.DeleteByTag("stock")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should be gone")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should survive")
	}
	if _, ok := c.tagIndex.Load("stock"); ok {
		t.Error("tag index not cleared")
	}

	c.Set("a", 4, 0, nil)
	c.DeleteByTag("stock")
	if _, ok := c.Get("a"); !ok {
		t.Error("untagged re-set of a should survive a second DeleteByTag")
	}
}
