package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadFlag indicates a header whose free flag is neither 0 nor 1.
	ErrBadFlag = errors.New("format: invalid free flag")
)
