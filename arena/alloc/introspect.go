package alloc

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/arena/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// Snapshot returns one entry per block in chain (address) order.
func (a *Allocator) Snapshot() []BlockInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	data := a.r.Bytes()
	blocks := []BlockInfo{}
	for off := a.head; off != format.NoBlock; off = format.ReadNext(data, off) {
		blocks = append(blocks, BlockInfo{
			Size: format.ReadSize(data, off),
			Free: format.ReadFree(data, off),
		})
	}
	return blocks
}

// Dump writes a human-readable listing of every block: header offset and
// address, size, free flag and neighbour offsets.
func (a *Allocator) Dump(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	bw := bufio.NewWriter(w)
	base := a.r.Base()
	data := a.r.Bytes()

	bw.WriteString("Memory List\n")
	bw.WriteString("=======================================\n")
	idx := 0
	for off := a.head; off != format.NoBlock; off = format.ReadNext(data, off) {
		h, err := format.DecodeHeader(data, off)
		if err != nil {
			return err
		}
		fprintf(bw, "[%d] header: 0x%X (%#x)\n", idx, off, base+uintptr(off))
		fprintf(bw, "[%d] size:   %d\n", idx, h.Size)
		fprintf(bw, "[%d] free:   %t\n", idx, h.Free)
		fprintf(bw, "[%d] next:   %s\n", idx, linkString(h.Next))
		fprintf(bw, "[%d] prev:   %s\n\n", idx, linkString(h.Prev))
		idx++
	}
	return bw.Flush()
}

// Stats returns allocator counters plus a summary of the current chain.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.stats
	data := a.r.Bytes()
	for off := a.head; off != format.NoBlock; off = format.ReadNext(data, off) {
		size := format.ReadSize(data, off)
		s.Blocks++
		if format.ReadFree(data, off) {
			s.FreeBlocks++
			s.FreeBytes += size
		} else {
			s.UsedBytes += size
		}
	}
	s.Committed = a.r.Len() - a.start
	return s
}

// PrintStats writes allocator statistics to w.
func (a *Allocator) PrintStats(w io.Writer) {
	s := a.Stats()
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n=== ALLOCATOR STATISTICS ===\n")
	p.Fprintf(w, "Grow calls:         %d (%d bytes committed)\n", s.GrowCalls, s.GrowBytes)
	p.Fprintf(w, "Alloc calls:        %d (failed: %d)\n", s.AllocCalls, s.FailedAllocs)
	p.Fprintf(w, "Free calls:         %d (invalid: %d)\n", s.FreeCalls, s.InvalidFrees)
	p.Fprintf(w, "Splits:             %d\n", s.Splits)
	p.Fprintf(w, "Coalesce:           %d forward, %d backward\n", s.CoalesceForward, s.CoalesceBackward)
	p.Fprintf(w, "Blocks:             %d (%d free)\n", s.Blocks, s.FreeBlocks)
	p.Fprintf(w, "Payload bytes:      %d used, %d free\n", s.UsedBytes, s.FreeBytes)
	p.Fprintf(w, "Header bytes:       %d\n", s.Blocks*HeaderSize)
	p.Fprintf(w, "============================\n")
}

// Verify checks the chain invariants: links, contiguity, no adjacent free
// blocks, and alignment when AlignRequests is set.
func (a *Allocator) Verify() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	blocks, err := verify.Walk(a.r.Bytes(), a.head)
	if err != nil {
		return err
	}
	if len(blocks) > 0 && blocks[len(blocks)-1].Offset != a.tail {
		return &verify.ValidationError{
			Type:    "Links",
			Message: "tail does not match the last block in the chain",
			Offset:  a.tail,
		}
	}
	return verify.AllInvariants(blocks, verify.Layout{
		Start:   a.start,
		Break:   a.r.Len(),
		Aligned: a.cfg.AlignRequests,
	})
}

func linkString(off int) string {
	if off == format.NoBlock {
		return "nil"
	}
	return fmt.Sprintf("0x%X", off)
}

// fprintf ignores write errors: bufio.Writer keeps the first one and Flush reports it.
func fprintf(w *bufio.Writer, f string, args ...any) {
	_, _ = fmt.Fprintf(w, f, args...)
}
