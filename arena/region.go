package arena

import "errors"

const (
	// DefaultLimit is the reservation size used by Default regions (1 GiB of
	// address space; only extended pages are committed).
	DefaultLimit = 1 << 30

	// pageSize is the commit granularity of Mapped regions.
	pageSize = 4096
)

var (
	// ErrNoMemory indicates the region cannot be extended any further.
	ErrNoMemory = errors.New("arena: cannot increase data space")

	// ErrClosed indicates the region was used after Close.
	ErrClosed = errors.New("arena: region closed")

	// ErrBadSize indicates a negative extension or a non-positive limit.
	ErrBadSize = errors.New("arena: invalid size")
)

// Region is a growable, never-moving span of memory.
type Region interface {
	// Extend advances the break by n bytes and returns the previous break.
	// Extend(0) reports the current break. On failure the break is unchanged.
	Extend(n int) (prev int, err error)

	// Bytes returns the committed bytes [0, break).
	Bytes() []byte

	// Len returns the current break.
	Len() int

	// Base returns the address of the first byte of the region. It is used
	// for diagnostics only and is never dereferenced.
	Base() uintptr

	// Close releases the region. Slices obtained from Bytes must not be used
	// afterwards.
	Close() error
}

// Default returns the preferred region for the platform: a Mapped
// reservation where mmap is available, otherwise a Heap.
func Default(limit int) (Region, error) {
	r, err := Reserve(limit)
	if err != nil {
		return nil, err
	}
	return r, nil
}
