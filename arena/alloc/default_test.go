package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsShared(t *testing.T) {
	a := Default()
	require.NotNil(t, a)
	assert.Same(t, a, Default())
}

func TestMallocRelease(t *testing.T) {
	p := Malloc(64)
	require.False(t, p.IsNil())

	b := Default().Bytes(p)
	require.Len(t, b, 64)
	copy(b, "process-wide allocator")
	assert.Equal(t, "process-wide allocator", string(Default().Bytes(p)[:22]))

	Release(p)
	assert.Nil(t, Default().Bytes(p))
	require.NoError(t, Default().Verify())
}
