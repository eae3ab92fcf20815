//go:build linux || darwin

package arena

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/format"
)

// Mapped is a Region backed by an anonymous mmap reservation. The whole limit
// is reserved with PROT_NONE at creation; Extend makes pages accessible as the
// break moves past them, so the arena's address never changes.
type Mapped struct {
	data      []byte // full reservation
	brk       int    // logical break
	committed int    // bytes made read/write, page multiple
	page      int
}

// Reserve maps limit bytes of address space (rounded up to the page size).
func Reserve(limit int) (*Mapped, error) {
	if limit <= 0 {
		return nil, ErrBadSize
	}
	page := unix.Getpagesize()
	if page <= 0 {
		page = pageSize
	}
	size := format.AlignTo(limit, page)

	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", size, err)
	}

	return &Mapped{data: data, page: page}, nil
}

// Extend advances the break by n bytes, committing pages as needed.
func (m *Mapped) Extend(n int) (int, error) {
	if m.data == nil {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, ErrBadSize
	}
	prev := m.brk
	if n > len(m.data)-prev {
		return 0, ErrNoMemory
	}
	next := prev + n

	if next > m.committed {
		upTo := min(format.AlignTo(next, m.page), len(m.data))
		if err := unix.Mprotect(m.data[m.committed:upTo], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			// Break is unchanged; the caller sees the same failure as sbrk.
			return 0, errors.Join(ErrNoMemory, err)
		}
		m.committed = upTo
	}

	m.brk = next
	return prev, nil
}

// Bytes returns the committed bytes [0, break).
func (m *Mapped) Bytes() []byte { return m.data[:m.brk:m.brk] }

// Len returns the current break.
func (m *Mapped) Len() int { return m.brk }

// Limit returns the reservation size.
func (m *Mapped) Limit() int { return len(m.data) }

// Committed returns the number of bytes currently accessible (page granular).
func (m *Mapped) Committed() int { return m.committed }

// Base returns the address of the reservation.
func (m *Mapped) Base() uintptr {
	if m.data == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(m.data)))
}

// Close unmaps the reservation.
func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	m.brk = 0
	m.committed = 0
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
