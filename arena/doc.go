// Package arena provides the break-style memory regions the allocator grows.
//
// # Overview
//
// A Region is a contiguous span of bytes with a movable end, the "break".
// Extend(n) advances the break by n bytes and returns the previous break,
// the same contract as sbrk(2). Regions never shrink and never move: a slice
// obtained from Bytes() stays valid for the lifetime of the region, even
// after later Extend calls.
//
// # Implementations
//
// Mapped: anonymous mmap reservation (unix only)
//
//   - Reserves the full limit up front with PROT_NONE
//   - Extend commits whole pages with mprotect(PROT_READ|PROT_WRITE)
//   - Close unmaps the reservation
//
// Heap: Go-heap backed fallback
//
//   - Fixed-capacity byte slice, break is its length
//   - Used on platforms without mmap and in tests that want a tiny limit
//
// # Usage Example
//
//	r, err := arena.Reserve(arena.DefaultLimit)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	prev, err := r.Extend(624)
//	if err != nil {
//	    // out of memory
//	}
//	block := r.Bytes()[prev:]
//
// # Thread Safety
//
// Regions are not thread-safe. The allocator serializes every Extend call
// under its own lock.
package arena
