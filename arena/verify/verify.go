package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Block is one decoded chain entry.
type Block = format.Header

// Layout describes the arena the chain must tile.
type Layout struct {
	Start   int  // Offset of the first header
	Break   int  // End of committed arena
	Aligned bool // Require 8-byte aligned sizes and offsets
}

// Walk decodes the chain starting at head. It fails on undecodable headers
// and on chains longer than the arena could possibly hold (a cycle).
func Walk(data []byte, head int) ([]Block, error) {
	var blocks []Block
	limit := len(data)/format.HeaderSize + 1
	for off := head; off != format.NoBlock; {
		if len(blocks) >= limit {
			return blocks, &ValidationError{
				Type:    "Links",
				Message: fmt.Sprintf("chain longer than %d blocks (cycle?)", limit),
				Offset:  off,
			}
		}
		h, err := format.DecodeHeader(data, off)
		if err != nil {
			return blocks, &ValidationError{
				Type:    "Header",
				Message: err.Error(),
				Offset:  off,
			}
		}
		blocks = append(blocks, h)
		off = h.Next
	}
	return blocks, nil
}

// AllInvariants validates all chain invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(blocks []Block, l Layout) error {
	if err := Links(blocks); err != nil {
		return err
	}
	if err := Contiguity(blocks, l); err != nil {
		return err
	}
	if l.Aligned {
		if err := Alignment(blocks); err != nil {
			return err
		}
	}
	return NoAdjacentFree(blocks)
}

// Links validates that prev/next agree and that offsets strictly increase.
func Links(blocks []Block) error {
	for i, b := range blocks {
		wantPrev := format.NoBlock
		if i > 0 {
			wantPrev = blocks[i-1].Offset
		}
		if b.Prev != wantPrev {
			return &ValidationError{
				Type:    "Links",
				Message: fmt.Sprintf("prev link %d, expected %d", b.Prev, wantPrev),
				Offset:  b.Offset,
				Details: map[string]any{"index": i},
			}
		}
		if i > 0 && b.Offset <= blocks[i-1].Offset {
			return &ValidationError{
				Type:    "Links",
				Message: fmt.Sprintf("chain order does not follow address order (previous header 0x%X)", blocks[i-1].Offset),
				Offset:  b.Offset,
				Details: map[string]any{"index": i},
			}
		}
	}
	if n := len(blocks); n > 0 && blocks[n-1].Next != format.NoBlock {
		return &ValidationError{
			Type:    "Links",
			Message: "last block has a next link",
			Offset:  blocks[n-1].Offset,
		}
	}
	return nil
}

// Contiguity validates that blocks exactly tile [l.Start, l.Break).
func Contiguity(blocks []Block, l Layout) error {
	if len(blocks) == 0 {
		if l.Break != l.Start {
			return &ValidationError{
				Type:    "Contiguity",
				Message: fmt.Sprintf("empty chain but %d committed bytes", l.Break-l.Start),
				Offset:  -1,
			}
		}
		return nil
	}

	if blocks[0].Offset != l.Start {
		return &ValidationError{
			Type:    "Contiguity",
			Message: fmt.Sprintf("first block does not start the arena (start 0x%X)", l.Start),
			Offset:  blocks[0].Offset,
		}
	}

	for i, b := range blocks {
		end := format.BlockEnd(b.Offset, b.Size)
		want := l.Break
		if i+1 < len(blocks) {
			want = blocks[i+1].Offset
		}
		if end != want {
			return &ValidationError{
				Type:    "Contiguity",
				Message: fmt.Sprintf("block ends at 0x%X, next boundary is 0x%X", end, want),
				Offset:  b.Offset,
				Details: map[string]any{"index": i, "size": b.Size},
			}
		}
	}
	return nil
}

// Alignment validates 8-byte alignment of header offsets and sizes.
func Alignment(blocks []Block) error {
	for i, b := range blocks {
		if !format.IsAligned8(b.Offset) || !format.IsAligned8(b.Size) {
			return &ValidationError{
				Type:    "Alignment",
				Message: fmt.Sprintf("size %d or offset not 8-byte aligned", b.Size),
				Offset:  b.Offset,
				Details: map[string]any{"index": i},
			}
		}
	}
	return nil
}

// NoAdjacentFree validates that no two neighbouring blocks are both free.
func NoAdjacentFree(blocks []Block) error {
	for i := 1; i < len(blocks); i++ {
		if blocks[i-1].Free && blocks[i].Free {
			return &ValidationError{
				Type:    "Coalescing",
				Message: fmt.Sprintf("free block follows free block at 0x%X", blocks[i-1].Offset),
				Offset:  blocks[i].Offset,
				Details: map[string]any{"index": i},
			}
		}
	}
	return nil
}
