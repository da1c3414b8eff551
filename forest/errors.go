package forest

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Forest wraps one of these, so
// clients may test with errors.Is.
var (
	// ErrInvalidArgument flags misuse: reserved or duplicate IDs,
	// positions out of range, parent relations which would create a cycle.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPrecondition is returned when repositioning a node with children.
	ErrPrecondition = errors.New("precondition violated")

	// ErrInvariant signals a corrupted forest. The forest should be
	// considered unusable and rebuilt from scratch.
	ErrInvariant = errors.New("invariant violated")

	// ErrNotFound is returned for IDs not present in the forest.
	ErrNotFound = errors.New("node not found")
)

// Error is the error type of forest operations.
type Error struct {
	Op   string // operation, e.g. "reparent"
	ID   ID     // node the operation was called for
	Kind error  // one of the Err… kinds
	Msg  string // optional detail
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("forest: %s %d: %v", e.Op, e.ID, e.Kind)
	}
	return fmt.Sprintf("forest: %s %d: %v: %s", e.Op, e.ID, e.Kind, e.Msg)
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.Kind }

func fail(op string, id ID, kind error, format string, args ...interface{}) error {
	err := &Error{Op: op, ID: id, Kind: kind, Msg: fmt.Sprintf(format, args...)}
	if kind == ErrInvariant {
		tracer().Errorf("%s", err.Error())
	}
	return err
}
