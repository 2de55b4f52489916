package arena

import "github.com/pkg/errors"

// initialTableCapacity is the number of slots a table reserves on first use
const initialTableCapacity = 10

// Table is an append-only array addressed by index. Entries are never
// removed, so an index stays valid for the lifetime of the table.
type Table[T any] struct {
	name  string
	items []T
	limit int
}

// NewTable creates an empty table that refuses to grow past limit entries.
// A limit of zero or less means unbounded.
func NewTable[T any](name string, limit int) *Table[T] {
	return &Table[T]{name: name, limit: limit}
}

// Add appends item and returns its index
func (t *Table[T]) Add(item T) (int, error) {
	if t.limit > 0 && len(t.items) >= t.limit {
		return 0, errors.Wrapf(ErrTableFull, "%s table at limit of %d entries", t.name, t.limit)
	}
	if len(t.items) == cap(t.items) {
		newCap := max(2*cap(t.items), initialTableCapacity)
		if t.limit > 0 {
			newCap = min(newCap, t.limit)
		}
		grown := make([]T, len(t.items), newCap)
		copy(grown, t.items)
		t.items = grown
	}
	t.items = append(t.items, item)
	return len(t.items) - 1, nil
}

// Get returns the entry at index. It panics if index is out of range.
func (t *Table[T]) Get(index int) T {
	return t.items[index]
}

// Has reports whether index addresses an entry
func (t *Table[T]) Has(index int) bool {
	return index >= 0 && index < len(t.items)
}

// Set replaces the entry at index. Used to finish entries whose contents
// depend on handles allocated after them.
func (t *Table[T]) Set(index int, item T) {
	t.items[index] = item
}

// Len returns the number of entries
func (t *Table[T]) Len() int { return len(t.items) }

// Cap returns the number of reserved slots
func (t *Table[T]) Cap() int { return cap(t.items) }

// Limit returns the maximum number of entries, or zero if unbounded
func (t *Table[T]) Limit() int { return t.limit }

// Name returns the label used in error messages
func (t *Table[T]) Name() string { return t.name }
