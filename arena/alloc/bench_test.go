package alloc

import (
	"strconv"
	"testing"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/internal/logger"
)

func newBenchAllocator(b *testing.B) *Allocator {
	b.Helper()
	r, err := arena.Default(arena.DefaultLimit)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = r.Close() })
	a, err := New(r, &Config{GrowthMultiplier: 10, Logger: logger.Discard()})
	if err != nil {
		b.Fatal(err)
	}
	return a
}

// BenchmarkAllocFree measures one allocation and its release on a warm chain.
func BenchmarkAllocFree(b *testing.B) {
	a := newBenchAllocator(b)
	a.Free(a.Alloc(64))

	b.ReportAllocs()
	for b.Loop() {
		a.Free(a.Alloc(64))
	}
}

// BenchmarkAllocBatch measures first-fit cost as the chain grows.
func BenchmarkAllocBatch(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			a := newBenchAllocator(b)
			ptrs := make([]Ptr, n)

			b.ReportAllocs()
			for b.Loop() {
				for i := range ptrs {
					ptrs[i] = a.Alloc(16)
				}
				for _, p := range ptrs {
					a.Free(p)
				}
			}
		})
	}
}

// BenchmarkParallel measures lock contention.
func BenchmarkParallel(b *testing.B) {
	a := newBenchAllocator(b)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			a.Free(a.Alloc(32))
		}
	})
}
