package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Header is the decoded form of a block header.
type Header struct {
	Offset int  // Arena offset of the header itself
	Size   int  // Payload size, header excluded
	Free   bool // True when the block is available
	Next   int  // Offset of the following header or NoBlock
	Prev   int  // Offset of the preceding header or NoBlock
}

// DecodeHeader decodes the header stored at off.
func DecodeHeader(b []byte, off int) (Header, error) {
	hb, ok := buf.Slice(b, off, HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	flag := buf.U64LE(hb[HeaderFreeOffset:])
	if flag > freeFlag {
		return Header{}, fmt.Errorf("header at %d: %w (%d)", off, ErrBadFlag, flag)
	}
	return Header{
		Offset: off,
		Size:   int(buf.U64LE(hb[HeaderSizeOffset:])),
		Free:   flag == freeFlag,
		Next:   readLink(b, off+HeaderNextOffset),
		Prev:   readLink(b, off+HeaderPrevOffset),
	}, nil
}

// EncodeHeader writes h at h.Offset. The caller guarantees the bytes exist.
func EncodeHeader(b []byte, h Header) {
	PutSize(b, h.Offset, h.Size)
	PutFree(b, h.Offset, h.Free)
	PutNext(b, h.Offset, h.Next)
	PutPrev(b, h.Offset, h.Prev)
}

// Field accessors used on the allocator hot path. They skip bounds
// validation beyond what slicing already performs.

// ReadSize returns the payload size of the block at off.
func ReadSize(b []byte, off int) int { return int(ReadU64(b, off+HeaderSizeOffset)) }

// ReadFree reports whether the block at off is free.
func ReadFree(b []byte, off int) bool { return ReadU64(b, off+HeaderFreeOffset) == freeFlag }

// ReadNext returns the next link of the block at off.
func ReadNext(b []byte, off int) int { return readLink(b, off+HeaderNextOffset) }

// ReadPrev returns the prev link of the block at off.
func ReadPrev(b []byte, off int) int { return readLink(b, off+HeaderPrevOffset) }

// PutSize sets the payload size of the block at off.
func PutSize(b []byte, off int, size int) { PutU64(b, off+HeaderSizeOffset, uint64(size)) }

// PutFree sets the free flag of the block at off.
func PutFree(b []byte, off int, free bool) {
	var v uint64
	if free {
		v = freeFlag
	}
	PutU64(b, off+HeaderFreeOffset, v)
}

// PutNext sets the next link of the block at off.
func PutNext(b []byte, off int, next int) { putLink(b, off+HeaderNextOffset, next) }

// PutPrev sets the prev link of the block at off.
func PutPrev(b []byte, off int, prev int) { putLink(b, off+HeaderPrevOffset, prev) }
