package alloc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/arena"
)

// TestRandomWorkload drives a seeded mix of allocations and frees and checks
// the invariants and payload contents after every step.
func TestRandomWorkload(t *testing.T) {
	for _, aligned := range []bool{false, true} {
		name := "unaligned"
		if aligned {
			name = "aligned"
		}
		t.Run(name, func(t *testing.T) {
			a := newTestAllocatorWithConfig(t, arena.NewHeap(testRegionLimit), Config{
				GrowthMultiplier: 10,
				AlignRequests:    aligned,
			})
			rng := rand.New(rand.NewPCG(42, 1024))

			type live struct {
				p    Ptr
				size int
				fill byte
			}
			var blocks []live

			for step := range 2000 {
				if len(blocks) == 0 || rng.IntN(3) > 0 {
					size := rng.IntN(300)
					p := a.Alloc(size)
					require.False(t, p.IsNil(), "step %d: Alloc(%d)", step, size)
					fill := byte(step)
					b := a.Bytes(p)
					require.GreaterOrEqual(t, len(b), size)
					for i := range b {
						b[i] = fill
					}
					blocks = append(blocks, live{p: p, size: size, fill: fill})
				} else {
					i := rng.IntN(len(blocks))
					blk := blocks[i]
					for j, v := range a.Bytes(blk.p)[:blk.size] {
						require.Equal(t, blk.fill, v, "step %d: block %d byte %d", step, blk.p, j)
					}
					a.Free(blk.p)
					blocks[i] = blocks[len(blocks)-1]
					blocks = blocks[:len(blocks)-1]
				}
				if step%50 == 0 {
					assertInvariants(t, a)
				}
			}

			for _, blk := range blocks {
				a.Free(blk.p)
			}
			s := a.Stats()
			requireBlocks(t, a, free(s.Committed-HeaderSize))
		})
	}
}
