package alloc

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Runtime trace flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// maxRequest keeps size+HeaderSize and the 8-byte round-up inside int.
const maxRequest = math.MaxInt - HeaderSize - format.BlockAlignment

// Allocator is a first-fit allocator over a single growable region.
//
// Blocks form a doubly linked chain in address order. Each block is a
// HeaderSize header followed by its payload, and consecutive blocks tile the
// region with no gaps. All state is guarded by one mutex: Alloc, Free and
// every introspection call hold it for their whole duration, including the
// break extension.
type Allocator struct {
	mu sync.Mutex

	r   arena.Region
	cfg Config
	log *slog.Logger

	// start is the region offset where the first block is placed.
	start int

	// head and tail are header offsets, format.NoBlock while the chain is empty.
	head int
	tail int

	stats Stats
}

// New creates an allocator that grows r on demand.
//
// Parameters:
//   - r: The region to carve blocks from. Bytes already committed are left alone.
//   - cfg: Allocator configuration (use nil for DefaultConfig)
func New(r arena.Region, cfg *Config) (*Allocator, error) {
	if r == nil {
		return nil, ErrNilRegion
	}
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if cfg.GrowthMultiplier < 1 {
		return nil, fmt.Errorf("%w: growth multiplier %d", ErrBadConfig, cfg.GrowthMultiplier)
	}

	l := cfg.Logger
	if l == nil {
		l = logger.L
	}

	return &Allocator{
		r:     r,
		cfg:   *cfg,
		log:   l,
		start: r.Len(),
		head:  format.NoBlock,
		tail:  format.NoBlock,
	}, nil
}

// Alloc returns a pointer to size bytes of payload, or Nil when the region
// cannot grow any further. Size 0 is valid and yields a distinct pointer.
func (a *Allocator) Alloc(size int) Ptr {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.AllocCalls++
	if size < 0 || size > maxRequest {
		a.stats.FailedAllocs++
		return Nil
	}
	if a.cfg.AlignRequests {
		size = format.Align8(size)
	}

	off := a.firstFit(size)
	if off == format.NoBlock {
		off = a.grow(size)
	}
	if off == format.NoBlock {
		a.stats.FailedAllocs++
		return Nil
	}

	if logAlloc {
		a.log.Debug("alloc", "size", size, "header", off)
	}
	return Ptr(format.PayloadOffset(off))
}

// Free returns the block behind p to the chain and merges it with every
// adjacent free block. A pointer whose header falls outside the arena is
// reported on the logger and otherwise ignored. Free(Nil) is a no-op.
func (a *Allocator) Free(p Ptr) {
	if p == Nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.FreeCalls++
	off := format.HeaderOffset(int(p))
	brk := a.r.Len()
	if a.head == format.NoBlock || off < a.head || off > brk-HeaderSize {
		a.stats.InvalidFrees++
		a.log.Warn("invalid memory block", "ptr", int(p), "header", off, "head", a.head, "brk", brk)
		return
	}

	data := a.r.Bytes()
	format.PutFree(data, off, true)
	off = a.coalesce(data, off)

	if logAlloc {
		a.log.Debug("free", "ptr", int(p), "merged", off, "size", format.ReadSize(data, off))
	}
}

// Bytes returns the payload of the live allocation at p, or nil when p does
// not address an occupied block inside the arena. The slice stays valid
// until p is freed; callers may use it without holding any lock.
func (a *Allocator) Bytes(p Ptr) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	off := format.HeaderOffset(int(p))
	if p == Nil || a.head == format.NoBlock || off < a.head || off > a.r.Len()-HeaderSize {
		return nil
	}
	data := a.r.Bytes()
	if format.ReadFree(data, off) {
		return nil
	}
	payload, ok := buf.Slice(data, int(p), format.ReadSize(data, off))
	if !ok {
		return nil
	}
	return payload
}

// Addr returns the absolute address of p for diagnostics.
func (a *Allocator) Addr(p Ptr) uintptr {
	if p == Nil {
		return 0
	}
	return a.r.Base() + uintptr(p)
}

// ============================================================================
// Internal helpers (callers hold a.mu)
// ============================================================================

// firstFit walks the chain from head and splits the first free block whose
// payload strictly exceeds size+HeaderSize. A free block of exactly that size
// is skipped: only growth hands out blocks without room for a split.
func (a *Allocator) firstFit(size int) int {
	need, ok := buf.AddOverflowSafe(size, HeaderSize)
	if !ok {
		return format.NoBlock
	}

	data := a.r.Bytes()
	for off := a.head; off != format.NoBlock; off = format.ReadNext(data, off) {
		if format.ReadFree(data, off) && format.ReadSize(data, off) > need {
			a.split(data, off, size)
			return off
		}
	}
	return format.NoBlock
}

// split shrinks the block at off to size, marks it occupied and links a new
// free block holding the remainder right after it. The caller guarantees the
// block's payload exceeds size+HeaderSize.
func (a *Allocator) split(data []byte, off, size int) {
	oldSize := format.ReadSize(data, off)
	next := format.ReadNext(data, off)
	rest := format.BlockEnd(off, size)

	format.EncodeHeader(data, format.Header{
		Offset: rest,
		Size:   oldSize - size - HeaderSize,
		Free:   true,
		Next:   next,
		Prev:   off,
	})
	if next != format.NoBlock {
		format.PutPrev(data, next, rest)
	} else {
		a.tail = rest
	}

	format.PutSize(data, off, size)
	format.PutFree(data, off, false)
	format.PutNext(data, off, rest)

	a.stats.Splits++
}

// coalesce merges the free block at off with all free neighbours in both
// directions and returns the offset of the surviving block.
func (a *Allocator) coalesce(data []byte, off int) int {
	for next := format.ReadNext(data, off); next != format.NoBlock && format.ReadFree(data, next); next = format.ReadNext(data, off) {
		a.absorb(data, off, next)
		a.stats.CoalesceForward++
	}

	// Re-anchor on each absorbing predecessor so runs of three or more merge fully.
	for prev := format.ReadPrev(data, off); prev != format.NoBlock && format.ReadFree(data, prev); prev = format.ReadPrev(data, off) {
		a.absorb(data, prev, off)
		off = prev
		a.stats.CoalesceBackward++
	}

	return off
}

// absorb merges right into its immediate predecessor left.
func (a *Allocator) absorb(data []byte, left, right int) {
	merged := format.ReadSize(data, left) + HeaderSize + format.ReadSize(data, right)
	next := format.ReadNext(data, right)

	format.PutSize(data, left, merged)
	format.PutNext(data, left, next)
	if next != format.NoBlock {
		format.PutPrev(data, next, left)
	} else {
		a.tail = left
	}
}

// grow extends the region by GrowthMultiplier*(size+HeaderSize) bytes (8-byte
// aligned), appends the new space as one occupied block and splits off the
// unused remainder. It returns the new block's header offset or NoBlock when
// the region refuses to grow; the chain is untouched in that case.
func (a *Allocator) grow(size int) int {
	total, ok := growthTarget(size, a.cfg.GrowthMultiplier)
	if !ok {
		a.log.Error("cannot increase data space", "request", size, "err", "size overflow")
		return format.NoBlock
	}

	prev, err := a.r.Extend(total)
	if err != nil {
		a.log.Error("cannot increase data space", "request", size, "bytes", total, "err", err)
		return format.NoBlock
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += total

	data := a.r.Bytes()
	format.EncodeHeader(data, format.Header{
		Offset: prev,
		Size:   total - HeaderSize,
		Free:   false,
		Next:   format.NoBlock,
		Prev:   a.tail,
	})
	if a.tail != format.NoBlock {
		format.PutNext(data, a.tail, prev)
	}
	if a.head == format.NoBlock {
		a.head = prev
	}
	a.tail = prev

	if logAlloc {
		a.log.Debug("grow", "request", size, "bytes", total, "header", prev)
	}

	if total-HeaderSize > size+HeaderSize {
		a.split(data, prev, size)
	}
	return prev
}

// growthTarget computes Align8(mult * (size + HeaderSize)) without overflow.
func growthTarget(size, mult int) (int, bool) {
	need, ok := buf.AddOverflowSafe(size, HeaderSize)
	if !ok {
		return 0, false
	}
	total, ok := buf.MulOverflowSafe(mult, need)
	if !ok {
		return 0, false
	}
	if _, ok := buf.AddOverflowSafe(total, format.BlockAlignmentMask); !ok {
		return 0, false
	}
	return format.Align8(total), true
}
