package arena

import "unsafe"

// Heap is a Region backed by a fixed-capacity Go byte slice.
type Heap struct {
	buf    []byte
	closed bool
}

// NewHeap creates a heap region that can grow to limit bytes.
func NewHeap(limit int) *Heap {
	if limit < 0 {
		limit = 0
	}
	return &Heap{buf: make([]byte, 0, limit)}
}

// Extend advances the break by n bytes.
func (h *Heap) Extend(n int) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, ErrBadSize
	}
	prev := len(h.buf)
	if n > cap(h.buf)-prev {
		return 0, ErrNoMemory
	}
	// Reslicing within capacity keeps the backing array in place.
	h.buf = h.buf[:prev+n]
	return prev, nil
}

// Bytes returns the committed bytes.
func (h *Heap) Bytes() []byte { return h.buf }

// Len returns the current break.
func (h *Heap) Len() int { return len(h.buf) }

// Limit returns the maximum break.
func (h *Heap) Limit() int { return cap(h.buf) }

// Base returns the address of the backing array.
func (h *Heap) Base() uintptr {
	if cap(h.buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(h.buf)))
}

// Close drops the backing array.
func (h *Heap) Close() error {
	h.buf = nil
	h.closed = true
	return nil
}
