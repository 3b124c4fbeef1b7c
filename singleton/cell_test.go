package singleton

import (
	"sync"
	"sync/atomic"
	"testing"
)

type service struct{ id int64 }

func TestCellConstructsOnce(t *testing.T) {
	var (
		c     Cell[*service]
		calls atomic.Int64
		wg    sync.WaitGroup
	)
	results := make([]*service, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Get(func() *service {
				return &service{id: calls.Add(1)}
			})
		}(i)
	}
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Fatalf("constructor called %d times, want 1", n)
	}
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("result %d differs from first instance", i)
		}
	}
}

func TestCellLoad(t *testing.T) {
	var c Cell[int]
	if _, ok := c.Load(); ok {
		t.Fatalf("empty cell reported a value")
	}
	c.Get(func() int { return 7 })
	v, ok := c.Load()
	if !ok || v != 7 {
		t.Fatalf("Load => %d,%v want 7,true", v, ok)
	}
}

func TestNewGetter(t *testing.T) {
	calls := 0
	get := New(func() *service { calls++; return &service{id: 1} })
	a, b := get(), get()
	if a != b || calls != 1 {
		t.Fatalf("getter built %d instances (same=%v)", calls, a == b)
	}
}
