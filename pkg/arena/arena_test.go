package arena

import (
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocAlignment(t *testing.T) {
	a := New(64)

	off, err := a.Alloc(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	off, err = a.Alloc(8, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, off, "second block should be rounded up to 8 bytes")
	assert.Equal(t, 16, a.Used())
	assert.Equal(t, 48, a.Remaining())

	_, err = a.Alloc(4, 3)
	assert.Error(t, err, "non power of two alignment")
}

func TestArena_OutOfMemory(t *testing.T) {
	a := New(16)
	_, err := a.Alloc(16, 8)
	require.NoError(t, err)

	_, err = a.Alloc(1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.True(t, errors.Is(err, ErrCapacity))
	assert.False(t, errors.Is(err, ErrTableFull))
}

func TestArena_ReallocInPlace(t *testing.T) {
	a := New(128)
	off, err := a.Alloc(16, 8)
	require.NoError(t, err)
	copy(a.Bytes(off, 16), []byte("0123456789abcdef"))

	grown, err := a.Realloc(off, 16, 32, 8)
	require.NoError(t, err)
	assert.Equal(t, off, grown, "last allocation grows in place")
	assert.Equal(t, 32, a.Used())

	// a block that is no longer last gets copied
	_, err = a.Alloc(8, 8)
	require.NoError(t, err)
	moved, err := a.Realloc(off, 32, 48, 8)
	require.NoError(t, err)
	assert.NotEqual(t, off, moved)
	assert.Equal(t, "0123456789abcdef", string(a.Bytes(moved, 16)))
}

func TestArena_TempMemoryNesting(t *testing.T) {
	a := New(256)
	_, err := a.Alloc(10, 1)
	require.NoError(t, err)

	outer := a.BeginTemp()
	_, err = a.Alloc(50, 8)
	require.NoError(t, err)

	inner := a.BeginTemp()
	_, err = a.Alloc(100, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, a.TempDepth())

	assert.Panics(t, func() { a.EndTemp(outer) }, "closing the outer checkpoint first must panic")

	a.EndTemp(inner)
	assert.Equal(t, 66, a.Used())
	a.EndTemp(outer)
	assert.Equal(t, 10, a.Used())
	assert.Equal(t, 0, a.TempDepth())
	assert.Equal(t, 172, a.Peak())
}

func TestArena_Release(t *testing.T) {
	a := New(32)
	_, err := a.Alloc(8, 8)
	require.NoError(t, err)
	a.Release()
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, 0, a.Used())
}

type point struct {
	X, Y, Z float64
}

func TestMakeSlice(t *testing.T) {
	a := New(1024)
	s, err := MakeSlice[point](a, 2, 4)
	require.NoError(t, err)
	assert.Len(t, s, 2)
	assert.Equal(t, 4, cap(s))
	assert.Equal(t, point{}, s[1])
	assert.Equal(t, 4*int(unsafe.Sizeof(point{})), a.Used())

	_, err = MakeSlice[point](a, 3, 2)
	assert.Error(t, err)
}

func TestAppend_GrowsInPlaceWhenLast(t *testing.T) {
	a := New(1024)
	var s []uint32
	var err error
	for i := uint32(0); i < 20; i++ {
		s, err = Append(a, s, i)
		require.NoError(t, err)
	}
	require.Len(t, s, 20)
	for i, v := range s {
		assert.Equal(t, uint32(i), v)
	}
	// growth 4 -> 8 -> 16 -> 32, all in place
	assert.Equal(t, 32*4, a.Used())
}

func TestAppend_CopiesWhenNotLast(t *testing.T) {
	a := New(1024)
	s, err := MakeSlice[uint32](a, 0, 2)
	require.NoError(t, err)
	s, err = Append(a, s, 1, 2)
	require.NoError(t, err)

	other, err := MakeSlice[uint32](a, 1, 1)
	require.NoError(t, err)
	other[0] = 99

	s, err = Append(a, s, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, s)
	assert.Equal(t, uint32(99), other[0], "growing s must not clobber later allocations")
}

func TestAppend_OutOfMemory(t *testing.T) {
	a := New(32)
	var s []uint64
	var err error
	for i := 0; i < 2; i++ {
		s, err = Append(a, s, uint64(i))
		require.NoError(t, err)
	}
	// the first grow reserved all 32 bytes; doubling needs 64
	_, err = Append(a, s, 2, 3, 4)
	assert.True(t, errors.Is(err, ErrCapacity))
}

func TestCopy(t *testing.T) {
	a := New(256)
	src := []float64{1, 2, 3}
	dst, err := Copy(a, src)
	require.NoError(t, err)
	src[0] = 42
	assert.Equal(t, []float64{1, 2, 3}, dst)
}
