package alloc

import (
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
)

// HeaderSize is the number of bytes of metadata in front of every payload.
const HeaderSize = format.HeaderSize

// Ptr is a payload offset inside the allocator's arena. It plays the role of
// the pointer returned by malloc: the payload starts exactly HeaderSize bytes
// past the block header.
type Ptr int

// Nil is the null pointer returned when an allocation cannot be satisfied.
const Nil Ptr = 0

// IsNil reports whether p is the null pointer.
func (p Ptr) IsNil() bool { return p == Nil }

// BlockInfo describes one block in chain order.
type BlockInfo struct {
	Size int  // Payload size in bytes
	Free bool // True when the block is available
}

// Config controls allocator behavior.
type Config struct {
	// GrowthMultiplier scales (request + HeaderSize) when the arena grows, so
	// one break extension serves many later small requests.
	GrowthMultiplier int

	// AlignRequests rounds every request up to 8 bytes, keeping every block
	// size and header offset 8-byte aligned. When false, sizes are stored
	// exactly as requested.
	AlignRequests bool

	// Logger receives diagnostics (invalid frees, refused growth). nil uses
	// the package logger.
	Logger *slog.Logger
}

// DefaultConfig matches the reference block layout: 10x growth, unaligned sizes.
var DefaultConfig = Config{
	GrowthMultiplier: 10,
}

// Stats holds allocator counters and a summary of the current chain.
type Stats struct {
	AllocCalls       int // Total Alloc() calls
	FreeCalls        int // Total Free() calls
	FailedAllocs     int // Alloc() calls that returned Nil
	InvalidFrees     int // Free() calls rejected by the bounds check
	GrowCalls        int // Successful break extensions
	GrowBytes        int // Total bytes added by growth
	Splits           int // Blocks split on allocate or grow
	CoalesceForward  int // Following blocks absorbed on free
	CoalesceBackward int // Preceding blocks that absorbed the freed block

	Blocks     int // Blocks in the chain
	FreeBlocks int // Free blocks in the chain
	FreeBytes  int // Payload bytes in free blocks
	UsedBytes  int // Payload bytes in occupied blocks
	Committed  int // Bytes obtained from the region
}
