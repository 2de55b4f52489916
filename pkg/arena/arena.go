// Package arena provides the single block of memory a scene is built in,
// plus the append-only tables its textures, materials and objects live in.
package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

// MaxAlign is the alignment of the region start and the largest alignment
// Alloc accepts
const MaxAlign = 8

// Arena is a bump allocator over one contiguous region. Nothing is freed
// individually: memory is reclaimed by rolling back a TempMemory checkpoint
// or by releasing the whole arena.
type Arena struct {
	buf       []byte
	used      int
	peak      int
	tempCount int
}

// TempMemory is a checkpoint returned by BeginTemp
type TempMemory struct {
	arena *Arena
	used  int
	depth int
}

// New allocates an arena of size bytes
func New(size int) *Arena {
	if size < 0 {
		size = 0
	}
	// backing words keep the region start 8-byte aligned
	words := make([]uint64, (size+MaxAlign-1)/MaxAlign)
	var buf []byte
	if len(words) > 0 {
		buf = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
	}
	return &Arena{buf: buf}
}

// Size returns the capacity of the arena in bytes
func (a *Arena) Size() int { return len(a.buf) }

// Used returns the number of bytes currently allocated
func (a *Arena) Used() int { return a.used }

// Peak returns the high-water mark of Used
func (a *Arena) Peak() int { return a.peak }

// Remaining returns the number of bytes still available, ignoring alignment
func (a *Arena) Remaining() int { return len(a.buf) - a.used }

// Alloc reserves size bytes aligned to align and returns their offset
func (a *Arena) Alloc(size, align int) (int, error) {
	if size < 0 {
		return 0, errors.Errorf("arena: negative allocation size %d", size)
	}
	if err := checkAlign(align); err != nil {
		return 0, err
	}
	offset := alignUp(a.used, align)
	if offset+size > len(a.buf) {
		return 0, errors.Wrapf(ErrOutOfMemory, "alloc %d bytes with %d of %d used", size, a.used, len(a.buf))
	}
	a.used = offset + size
	if a.used > a.peak {
		a.peak = a.used
	}
	return offset, nil
}

// Realloc resizes the block at offset. The most recent allocation grows or
// shrinks in place; any other block is copied into a fresh allocation.
func (a *Arena) Realloc(offset, oldSize, newSize, align int) (int, error) {
	if offset+oldSize == a.used && offset%align == 0 {
		if offset+newSize > len(a.buf) {
			return 0, errors.Wrapf(ErrOutOfMemory, "grow %d to %d bytes with %d of %d used", oldSize, newSize, a.used, len(a.buf))
		}
		a.used = offset + newSize
		if a.used > a.peak {
			a.peak = a.used
		}
		return offset, nil
	}

	next, err := a.Alloc(newSize, align)
	if err != nil {
		return 0, err
	}
	copy(a.buf[next:next+newSize], a.buf[offset:offset+min(oldSize, newSize)])
	return next, nil
}

// Bytes returns the size bytes starting at offset
func (a *Arena) Bytes(offset, size int) []byte {
	return a.buf[offset : offset+size : offset+size]
}

// BeginTemp opens a checkpoint. Everything allocated until the matching
// EndTemp is discarded by it. Checkpoints nest and must be closed LIFO.
func (a *Arena) BeginTemp() TempMemory {
	a.tempCount++
	return TempMemory{arena: a, used: a.used, depth: a.tempCount}
}

// EndTemp rolls the arena back to the checkpoint. Closing checkpoints out
// of order is a programming error and panics.
func (a *Arena) EndTemp(t TempMemory) {
	if t.arena != a {
		panic("arena: EndTemp with a checkpoint from another arena")
	}
	if t.depth != a.tempCount {
		panic("arena: EndTemp out of order")
	}
	if t.used > a.used {
		panic("arena: EndTemp past the current offset")
	}
	a.tempCount--
	a.used = t.used
}

// TempDepth returns the number of open checkpoints
func (a *Arena) TempDepth() int { return a.tempCount }

// Release drops the whole region. The arena must not be used afterwards,
// and neither may any slice obtained from it.
func (a *Arena) Release() {
	a.buf = nil
	a.used = 0
	a.tempCount = 0
}

// base returns the address of the start of the region
func (a *Arena) base() uintptr {
	if len(a.buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.buf[0]))
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

func checkAlign(align int) error {
	if align <= 0 || align > MaxAlign || align&(align-1) != 0 {
		return errors.Errorf("arena: invalid alignment %d", align)
	}
	return nil
}
