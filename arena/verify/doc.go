// Package verify provides validation functions for allocator block chains.
//
// # Overview
//
// The allocator keeps its blocks in a doubly linked chain embedded in the
// arena. This package decodes that chain from raw arena bytes and checks the
// structural invariants every completed Alloc or Free must preserve. It is
// used by tests after each mutation and by heapctl after a workload.
//
// Validation categories:
//   - Links: next/prev agree, traversal order matches address order, no cycles
//   - Contiguity: blocks tile [Start, Break) with no gaps or overlaps
//   - Alignment: header offsets and sizes are multiples of 8 (aligned mode)
//   - Coalescing: no two chain-adjacent blocks are both free
//
// # Quick Start
//
//	blocks, err := verify.Walk(region.Bytes(), head)
//	if err != nil {
//	    return err
//	}
//	if err := verify.AllInvariants(blocks, verify.Layout{Start: 0, Break: region.Len()}); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return *ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string         // Error category (e.g., "Contiguity")
//	    Message string         // Human-readable description
//	    Offset  int            // Header offset where the error occurred (-1 if N/A)
//	    Details map[string]any // Additional context
//	}
package verify
