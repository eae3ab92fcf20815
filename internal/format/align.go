package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(0)  = 0
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(30) = 32
func Align8(n int) int {
	return (n + BlockAlignmentMask) & ^BlockAlignmentMask
}

// AlignTo returns n aligned up to a multiple of align, which must be a power of two.
func AlignTo(n, align int) int {
	return (n + align - 1) & ^(align - 1)
}

// IsAligned8 reports whether n is a multiple of 8.
func IsAligned8(n int) bool {
	return n&BlockAlignmentMask == 0
}

// PayloadOffset returns the payload offset of the block whose header starts at off.
func PayloadOffset(off int) int {
	return off + HeaderSize
}

// HeaderOffset returns the header offset for a payload offset handed out by the allocator.
func HeaderOffset(payload int) int {
	return payload - HeaderSize
}

// BlockEnd returns the offset just past the payload of a block at off with the given size.
// For every block except the last this is the header offset of its successor.
func BlockEnd(off, size int) int {
	return off + HeaderSize + size
}
