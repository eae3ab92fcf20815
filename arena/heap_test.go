package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeap_ExtendReturnsPreviousBreak(t *testing.T) {
	h := NewHeap(1024)

	prev, err := h.Extend(0)
	require.NoError(t, err)
	assert.Equal(t, 0, prev)

	prev, err = h.Extend(624)
	require.NoError(t, err)
	assert.Equal(t, 0, prev)
	assert.Equal(t, 624, h.Len())

	prev, err = h.Extend(100)
	require.NoError(t, err)
	assert.Equal(t, 624, prev)
	assert.Len(t, h.Bytes(), 724)
}

func TestHeap_ExtendPastLimitLeavesBreak(t *testing.T) {
	h := NewHeap(512)
	_, err := h.Extend(500)
	require.NoError(t, err)

	_, err = h.Extend(13)
	require.ErrorIs(t, err, ErrNoMemory)
	assert.Equal(t, 500, h.Len(), "failed extend must not move the break")

	_, err = h.Extend(12)
	require.NoError(t, err)
	assert.Equal(t, 512, h.Len())
}

func TestHeap_AddressStableAcrossGrowth(t *testing.T) {
	h := NewHeap(4096)
	_, err := h.Extend(64)
	require.NoError(t, err)

	first := h.Bytes()
	first[10] = 0xAB
	base := h.Base()

	_, err = h.Extend(2048)
	require.NoError(t, err)

	assert.Equal(t, base, h.Base())
	assert.Equal(t, byte(0xAB), h.Bytes()[10])
	first[11] = 0xCD
	assert.Equal(t, byte(0xCD), h.Bytes()[11], "old slices alias the grown region")
}

func TestHeap_NegativeAndClosed(t *testing.T) {
	h := NewHeap(64)
	_, err := h.Extend(-1)
	require.ErrorIs(t, err, ErrBadSize)

	require.NoError(t, h.Close())
	_, err = h.Extend(8)
	require.ErrorIs(t, err, ErrClosed)
}
