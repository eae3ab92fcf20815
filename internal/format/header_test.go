package format

import (
	"errors"
	"testing"
)

func TestHeaderSize(t *testing.T) {
	if HeaderSize != 32 {
		t.Fatalf("HeaderSize = %d, want 32", HeaderSize)
	}
	if !IsAligned8(HeaderSize) {
		t.Fatalf("HeaderSize must be 8-byte aligned")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	b := make([]byte, 3*HeaderSize)
	want := Header{Offset: HeaderSize, Size: 530, Free: true, Next: NoBlock, Prev: 0}
	EncodeHeader(b, want)

	got, err := DecodeHeader(b, HeaderSize)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != want {
		t.Fatalf("DecodeHeader = %+v, want %+v", got, want)
	}
	if ReadSize(b, HeaderSize) != 530 || !ReadFree(b, HeaderSize) {
		t.Fatalf("field accessors disagree with decoded header")
	}
	if ReadNext(b, HeaderSize) != NoBlock || ReadPrev(b, HeaderSize) != 0 {
		t.Fatalf("links not decoded: next=%d prev=%d", ReadNext(b, HeaderSize), ReadPrev(b, HeaderSize))
	}
}

func TestHeaderUnalignedOffset(t *testing.T) {
	b := make([]byte, 128)
	h := Header{Offset: 62, Size: 10, Free: false, Next: 104, Prev: 0}
	EncodeHeader(b, h)
	got, err := DecodeHeader(b, 62)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != h {
		t.Fatalf("DecodeHeader = %+v, want %+v", got, h)
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	b := make([]byte, HeaderSize-1)
	if _, err := DecodeHeader(b, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := DecodeHeader(make([]byte, 64), -8); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for negative offset, got %v", err)
	}
}

func TestDecodeHeaderBadFlag(t *testing.T) {
	b := make([]byte, HeaderSize)
	PutU64(b, HeaderFreeOffset, 7)
	if _, err := DecodeHeader(b, 0); !errors.Is(err, ErrBadFlag) {
		t.Fatalf("expected ErrBadFlag, got %v", err)
	}
}
