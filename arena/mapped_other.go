//go:build !linux && !darwin

package arena

// Reserve returns a heap-backed region on platforms without mmap support.
func Reserve(limit int) (*Heap, error) {
	if limit <= 0 {
		return nil, ErrBadSize
	}
	return NewHeap(limit), nil
}
