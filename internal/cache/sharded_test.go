package cache

import (
	"sync"
	"sync/atomic"
	"testing"
)

func identity(k uint64) uint64 { return k }

func TestSharded_GetOrCreate(t *testing.T) {
	c := NewSharded[uint64, string](4, identity)

	var calls int
	create := func() string {
		calls++
		return "v"
	}
	if got := c.GetOrCreate(1, create); got != "v" {
		t.Fatalf("GetOrCreate = %q, want v", got)
	}
	if got := c.GetOrCreate(1, create); got != "v" {
		t.Fatalf("GetOrCreate = %q, want v", got)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	if v, ok := c.Get(1); !ok || v != "v" {
		t.Errorf("Get(1) = %q, %v", v, ok)
	}
	if _, ok := c.Get(2); ok {
		t.Error("Get(2) should miss")
	}

	want := Stats{Len: 1, Hits: 2, Misses: 2}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestSharded_DefaultCapacity(t *testing.T) {
	c := NewSharded[uint64, int](0, identity)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
}

func TestSharded_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewSharded[uint64, uint64](2, identity)
	val := func(k uint64) func() uint64 { return func() uint64 { return k } }

	// Keys 0, 16 and 32 land in shard 0.
	c.GetOrCreate(0, val(0))
	c.GetOrCreate(16, val(16))
	c.Get(0) // 16 is now the oldest
	c.GetOrCreate(32, val(32))

	if _, ok := c.Get(16); ok {
		t.Error("key 16 should have been evicted")
	}
	for _, k := range []uint64{0, 32} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("key %d should still be cached", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestSharded_Clear(t *testing.T) {
	c := NewSharded[uint64, int](8, identity)
	for k := range uint64(40) {
		c.GetOrCreate(k, func() int { return int(k) })
	}
	if c.Len() != 40 {
		t.Fatalf("Len = %d, want 40", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestSharded_ConcurrentCreateOnce(t *testing.T) {
	c := NewSharded[uint64, int](64, identity)
	var calls atomic.Int64

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range uint64(100) {
				c.GetOrCreate(k, func() int {
					calls.Add(1)
					return int(k)
				})
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 100 {
		t.Errorf("create called %d times, want 100", calls.Load())
	}
}

func TestLRUList(t *testing.T) {
	var l lruList[int]
	a := l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	l.MoveToFront(a)

	var order []int
	for {
		k, ok := l.RemoveOldest()
		if !ok {
			break
		}
		order = append(order, k)
	}
	want := []int{2, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
}
