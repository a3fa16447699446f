package solver

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPoolForEachInline(t *testing.T) {
	p := newWorkerPool()
	defer p.stop()

	n := parallelThreshold - 1
	var count int64
	p.forEach(n, func(i int) { atomic.AddInt64(&count, 1) })
	if count != int64(n) {
		t.Errorf("forEach (inline path) ran %d of %d", count, n)
	}
}

func TestWorkerPoolForEachParallel(t *testing.T) {
	p := newWorkerPool()
	defer p.stop()

	n := parallelThreshold * 4
	seen := make([]int32, n)
	p.forEach(n, func(i int) { atomic.AddInt32(&seen[i], 1) })
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestWorkerPoolNilIsInline(t *testing.T) {
	var p *workerPool
	var count int
	p.forEach(10, func(i int) { count++ })
	if count != 10 {
		t.Errorf("nil pool forEach ran %d times, want 10", count)
	}
}
