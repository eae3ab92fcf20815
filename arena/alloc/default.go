package alloc

import (
	"sync"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/internal/logger"
)

// heapFallbackLimit bounds the Go-heap region used when the platform
// reservation cannot be created.
const heapFallbackLimit = 64 << 20

var (
	defaultOnce sync.Once
	defaultA    *Allocator
)

// Default returns the process-wide allocator, creating it on first use over
// an arena.DefaultLimit reservation. It lives until the process exits.
func Default() *Allocator {
	defaultOnce.Do(func() {
		r, err := arena.Default(arena.DefaultLimit)
		if err != nil {
			logger.Warn("arena reservation failed, using heap region", "err", err)
			r = arena.NewHeap(heapFallbackLimit)
		}
		// DefaultConfig is always valid.
		defaultA, _ = New(r, nil)
	})
	return defaultA
}

// Malloc allocates size bytes from the process-wide allocator.
func Malloc(size int) Ptr { return Default().Alloc(size) }

// Release frees p in the process-wide allocator.
func Release(p Ptr) { Default().Free(p) }
