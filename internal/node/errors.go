package node

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	// ErrInvariant marks a broken structural invariant inside the pipeline.
	// It always indicates a programming error, never bad input.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrCorruptGraph marks a serialized graph that cannot be reconstructed.
	ErrCorruptGraph = errors.New("corrupt graph")
)

// InvariantError describes which record broke which rule.
type InvariantError struct {
	Op     string
	ID     ID
	Kind   Kind
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: node %d (%s): %s", ErrInvariant, e.Op, e.ID, e.Kind, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// Violation panics with an *InvariantError. Callers at the package boundary
// recover it with Recover.
func Violation(op string, rec *Record, format string, args ...any) {
	err := &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
	if rec != nil {
		err.ID = rec.ID
		err.Kind = rec.Kind
	}
	panic(err)
}

// Recover converts an InvariantError panic into an error stored in *errp.
// Any other panic value is re-raised.
//
//	defer node.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InvariantError); ok {
		*errp = ie
		return
	}
	panic(r)
}
