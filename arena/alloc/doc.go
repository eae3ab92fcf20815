// Package alloc implements a thread-safe first-fit allocator over a single
// growable arena.
//
// # Overview
//
// The arena is an arena.Region: a span of bytes whose end (the break) only
// moves forward. The allocator tiles it with blocks. Every block is a 32-byte
// header followed by its payload; headers are linked into a doubly linked
// chain in address order, with links stored as arena offsets.
//
//	| hdr | payload | hdr | payload | hdr | payload ...      |
//	^ head                          ^ tail                  ^ break
//
// # Allocation
//
// Alloc walks the chain from head and takes the first free block whose
// payload is strictly larger than request+HeaderSize, splitting it into an
// occupied prefix and a free remainder. When no block qualifies the arena
// grows by GrowthMultiplier*(request+HeaderSize) bytes, 8-byte aligned, and
// the new space is appended as one block and split the same way.
//
// A free block whose payload is exactly request+HeaderSize bytes is never
// picked by the search; only growth produces blocks that are not split.
//
// # Deallocation
//
// Free marks the block free and merges it with every free neighbour in both
// directions, so a run of free blocks always collapses into one. A pointer
// whose header lies outside [head, break) is reported on the logger and
// ignored. Double frees are not detected.
//
// # Usage Example
//
//	r, err := arena.Reserve(arena.DefaultLimit)
//	if err != nil {
//	    return err
//	}
//	a, err := alloc.New(r, nil)
//	if err != nil {
//	    return err
//	}
//
//	p := a.Alloc(30)
//	if p.IsNil() {
//	    // out of memory
//	}
//	copy(a.Bytes(p), "hello")
//	a.Free(p)
//
//	for _, b := range a.Snapshot() {
//	    fmt.Println(b.Size, b.Free)
//	}
//
// # Thread Safety
//
// Allocator instances are safe for concurrent use. One mutex serializes
// Alloc, Free, the break extension and all introspection calls. Payload
// slices returned by Bytes may be read and written without the lock while
// the allocation is live.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/arena: Break-style regions (mmap, Go heap)
//   - github.com/joshuapare/heapkit/arena/verify: Chain invariant checks
package alloc
