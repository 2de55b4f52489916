package arena

import "github.com/pkg/errors"

// ErrCapacity is matched by every capacity error, so callers can tell a
// full arena or table apart from other failures with errors.Is.
var ErrCapacity = errors.New("capacity exceeded")

var (
	// ErrOutOfMemory is returned when an allocation does not fit in the arena
	ErrOutOfMemory error = &capacityError{"arena out of memory"}
	// ErrTableFull is returned when a handle table reaches its limit
	ErrTableFull error = &capacityError{"table full"}
)

type capacityError struct {
	msg string
}

func (e *capacityError) Error() string { return e.msg }

func (e *capacityError) Is(target error) bool { return target == ErrCapacity }
