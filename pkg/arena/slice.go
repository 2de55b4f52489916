package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

// The typed helpers below view arena bytes as []T. T must not contain Go
// pointers: the arena is scanned by the garbage collector as plain words,
// so a pointer stored in it would not keep its target alive.

// MakeSlice allocates a zeroed slice of length and capacity elements
func MakeSlice[T any](a *Arena, length, capacity int) ([]T, error) {
	if length < 0 || capacity < length {
		return nil, errors.Errorf("arena: invalid slice length %d capacity %d", length, capacity)
	}
	size, align, err := layout[T]()
	if err != nil {
		return nil, err
	}
	if capacity == 0 {
		return nil, nil
	}
	offset, err := a.Alloc(size*capacity, align)
	if err != nil {
		return nil, err
	}
	clear(a.buf[offset : offset+size*capacity])
	return view[T](a, offset, capacity)[:length], nil
}

// Append appends items to s, which must be nil or a slice obtained from a.
// When s is full its backing block doubles through Realloc, so a slice
// that was the last allocation grows without copying.
func Append[T any](a *Arena, s []T, items ...T) ([]T, error) {
	if len(s)+len(items) <= cap(s) {
		return append(s, items...), nil
	}
	grown, err := Grow(a, s, len(items))
	if err != nil {
		return nil, err
	}
	return append(grown, items...), nil
}

// Grow makes room for at least n more elements in s
func Grow[T any](a *Arena, s []T, n int) ([]T, error) {
	if len(s)+n <= cap(s) {
		return s, nil
	}
	size, align, err := layout[T]()
	if err != nil {
		return nil, err
	}

	newCap := max(2*cap(s), len(s)+n, 4)
	offset, ok := a.offsetOf(unsafe.Pointer(unsafe.SliceData(s)), cap(s)*size)
	if !ok {
		grown, err := MakeSlice[T](a, len(s), newCap)
		if err != nil {
			return nil, err
		}
		copy(grown, s)
		return grown, nil
	}

	next, err := a.Realloc(offset, cap(s)*size, newCap*size, align)
	if err != nil {
		return nil, err
	}
	clear(a.buf[next+cap(s)*size : next+newCap*size])
	return view[T](a, next, newCap)[:len(s)], nil
}

// Copy returns a copy of src allocated in a
func Copy[T any](a *Arena, src []T) ([]T, error) {
	dst, err := MakeSlice[T](a, len(src), len(src))
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

func layout[T any]() (size, align int, err error) {
	var zero T
	size = int(unsafe.Sizeof(zero))
	align = int(unsafe.Alignof(zero))
	if size == 0 {
		return 0, 0, errors.New("arena: zero-sized element type")
	}
	if align > MaxAlign {
		return 0, 0, errors.Errorf("arena: element alignment %d exceeds %d", align, MaxAlign)
	}
	return size, align, nil
}

func view[T any](a *Arena, offset, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&a.buf[offset])), n)
}

// offsetOf reports where a block of size bytes at p sits inside the region
func (a *Arena) offsetOf(p unsafe.Pointer, size int) (int, bool) {
	if p == nil || len(a.buf) == 0 {
		return 0, false
	}
	addr := uintptr(p)
	base := a.base()
	if addr < base || addr+uintptr(size) > base+uintptr(len(a.buf)) {
		return 0, false
	}
	return int(addr - base), true
}
