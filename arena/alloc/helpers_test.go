package alloc

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/internal/logger"
)

// ============================================================================
// Allocator Setup Utilities
// ============================================================================

// testRegionLimit is large enough for every functional test in this package.
const testRegionLimit = 8 << 20

// newTestAllocator creates an allocator over a heap region with the default
// config and a discarding logger.
func newTestAllocator(t testing.TB) *Allocator {
	t.Helper()
	return newTestAllocatorWithConfig(t, arena.NewHeap(testRegionLimit), Config{GrowthMultiplier: 10})
}

// newTestAllocatorWithConfig creates an allocator over r. A nil cfg.Logger
// discards diagnostics.
func newTestAllocatorWithConfig(t testing.TB, r arena.Region, cfg Config) *Allocator {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	a, err := New(r, &cfg)
	require.NoError(t, err, "failed to create Allocator")
	t.Cleanup(func() { _ = r.Close() })
	return a
}

// newCapturingAllocator creates an allocator over a heap region of the given
// limit whose diagnostics are written to the returned buffer.
func newCapturingAllocator(t testing.TB, limit int) (*Allocator, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := newTestAllocatorWithConfig(t, arena.NewHeap(limit), Config{
		GrowthMultiplier: 10,
		Logger:           logger.New(&out, slog.LevelDebug),
	})
	return a, &out
}

// ============================================================================
// Assertions
// ============================================================================

// occ and free build expected snapshot entries.
func occ(size int) BlockInfo  { return BlockInfo{Size: size, Free: false} }
func free(size int) BlockInfo { return BlockInfo{Size: size, Free: true} }

// requireBlocks asserts the exact chain layout and the chain invariants.
func requireBlocks(t testing.TB, a *Allocator, want ...BlockInfo) {
	t.Helper()
	if want == nil {
		want = []BlockInfo{}
	}
	require.Equal(t, want, a.Snapshot())
	assertInvariants(t, a)
}

// assertInvariants checks contiguity, links, coalescing and accounting.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Verify())

	s := a.Stats()
	require.Equal(t, s.Committed, s.UsedBytes+s.FreeBytes+s.Blocks*HeaderSize,
		"payload plus headers must equal committed bytes")
	require.Equal(t, s.GrowBytes, s.Committed, "every committed byte comes from growth")
}

// allocN allocates each size in order and fails the test on Nil.
func allocN(t testing.TB, a *Allocator, sizes ...int) []Ptr {
	t.Helper()
	ptrs := make([]Ptr, len(sizes))
	for i, sz := range sizes {
		ptrs[i] = a.Alloc(sz)
		require.False(t, ptrs[i].IsNil(), "Alloc(%d) returned Nil", sz)
	}
	return ptrs
}
