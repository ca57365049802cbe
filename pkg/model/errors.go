package model

import (
	"fmt"
)

// ErrNodeNotFound is returned when an operation references a (label, id)
// pair that is not present in the store
type ErrNodeNotFound struct {
	Key NodeKey
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("node not found: %s", e.Key)
}

// ErrDuplicateNode is returned by strict node creation when the
// (label, id) pair already exists
type ErrDuplicateNode struct {
	Key NodeKey
}

func (e ErrDuplicateNode) Error() string {
	return fmt.Sprintf("node already exists: %s", e.Key)
}

// ErrInvariantViolation indicates that the property store and the
// indexes have diverged. It is only ever produced by the consistency
// audit; seeing one means a bug in the mutation protocol, not caller
// misuse.
type ErrInvariantViolation struct {
	Detail string
}

func (e ErrInvariantViolation) Error() string {
	return fmt.Sprintf("index invariant violation: %s", e.Detail)
}
