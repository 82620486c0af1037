package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNode matches every [*DuplicateNodeError].
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrUnknownNode matches every [*UnknownNodeError].
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfDependency matches every [*SelfDependencyError].
	ErrSelfDependency = errors.New("node cannot depend on itself")
)

// DuplicateNodeError reports an inventory that lists the same ID twice.
type DuplicateNodeError struct {
	ID string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node ID %q", e.ID)
}

// Is reports whether target is [ErrDuplicateNode].
func (e *DuplicateNodeError) Is(target error) bool { return target == ErrDuplicateNode }

// UnknownNodeError reports an edge whose endpoint is not part of the node set.
// ID is the missing identifier and Edge the edge that referenced it.
type UnknownNodeError struct {
	ID   string
	Edge Edge
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("edge %s references unknown node %q", e.Edge, e.ID)
}

// Is reports whether target is [ErrUnknownNode].
func (e *UnknownNodeError) Is(target error) bool { return target == ErrUnknownNode }

// SelfDependencyError reports an edge whose prerequisite and dependent are equal.
type SelfDependencyError struct {
	Edge Edge
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("node %q cannot depend on itself", e.Edge.From)
}

// Is reports whether target is [ErrSelfDependency].
func (e *SelfDependencyError) Is(target error) bool { return target == ErrSelfDependency }
