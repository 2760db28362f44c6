package hashring

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTarget is matched by any *DuplicateTargetError.
	ErrDuplicateTarget = errors.New("hashring: target already exists")

	// ErrUnknownTarget is matched by any *UnknownTargetError.
	ErrUnknownTarget = errors.New("hashring: target does not exist")

	// ErrInvalidCount is returned by LookupList when less than one target is
	// requested.
	ErrInvalidCount = errors.New("hashring: need to request at least 1 target")

	// ErrEmptyRing is returned by Lookup when the ring has no targets.
	ErrEmptyRing = errors.New("hashring: no targets set")
)

// DuplicateTargetError is returned when adding a target which is already on
// the ring.
type DuplicateTargetError struct {
	Target string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("hashring: target %q already exists", e.Target)
}

func (e *DuplicateTargetError) Is(err error) bool {
	return err == ErrDuplicateTarget
}

// UnknownTargetError is returned when removing or updating a target which is
// not on the ring.
type UnknownTargetError struct {
	Target string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("hashring: target %q does not exist", e.Target)
}

func (e *UnknownTargetError) Is(err error) bool {
	return err == ErrUnknownTarget
}
