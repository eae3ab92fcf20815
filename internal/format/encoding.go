package format

import "encoding/binary"

// Binary encoding utilities for the 8-byte little-endian header fields.
//
// Header fields are read and written through encoding/binary rather than
// by casting arena memory to a struct, so headers may sit at any byte offset
// and the Go garbage collector never sees pointers into the arena.

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// putLink encodes a chain link, mapping NoBlock to its wire sentinel.
func putLink(b []byte, off int, link int) {
	if link == NoBlock {
		PutU64(b, off, noBlockWire)
		return
	}
	PutU64(b, off, uint64(link))
}

// readLink decodes a chain link written by putLink.
func readLink(b []byte, off int) int {
	v := ReadU64(b, off)
	if v == noBlockWire {
		return NoBlock
	}
	return int(v)
}
