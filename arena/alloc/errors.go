package alloc

import "errors"

var (
	// ErrNilRegion indicates New was called without a region.
	ErrNilRegion = errors.New("alloc: nil region")

	// ErrBadConfig indicates an unusable configuration value.
	ErrBadConfig = errors.New("alloc: invalid config")
)
