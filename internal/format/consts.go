// Package format defines the on-arena layout of block headers and the small
// amount of offset arithmetic needed to move between a header and the payload
// it describes. Nothing above this package computes raw header offsets.
package format

import "math"

const (
	// BlockAlignment is the alignment of block headers and, in aligned mode,
	// of payload sizes.
	BlockAlignment = 8

	// BlockAlignmentMask is BlockAlignment-1, used by the align helpers.
	BlockAlignmentMask = BlockAlignment - 1

	// Block header layout (little-endian, 8-byte fields):
	//
	//	Offset  Size  Description
	//	0x00    8     Payload size in bytes, header excluded.
	//	0x08    8     Free flag: 1 => free, 0 => occupied.
	//	0x10    8     Arena offset of the next header, NoBlock if last.
	//	0x18    8     Arena offset of the previous header, NoBlock if first.
	HeaderSizeOffset = 0x00
	HeaderFreeOffset = 0x08
	HeaderNextOffset = 0x10
	HeaderPrevOffset = 0x18

	// rawHeaderSize is the packed size of the four header fields.
	rawHeaderSize = 0x20

	// HeaderSize is the aligned header size. Every block costs exactly this
	// many bytes of metadata in front of its payload.
	HeaderSize = (rawHeaderSize + BlockAlignmentMask) & ^BlockAlignmentMask

	// NoBlock marks the absence of a neighbour (and an empty chain).
	NoBlock = -1

	// noBlockWire is the encoded form of NoBlock.
	noBlockWire = math.MaxUint64

	freeFlag = 1
)
