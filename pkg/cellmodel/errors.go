package cellmodel

import (
	"errors"
	"fmt"
)

// Sentinel errors for the cell-tree error conditions.
var (
	ErrDuplicateIdentity = errors.New("cellmodel: duplicate cell identity")
	ErrInvalidState      = errors.New("cellmodel: invalid state")
)

// InvalidStateError wraps ErrInvalidState with context about which
// operation was rejected and why.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return "cellmodel: invalid state: " + e.Msg }
func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

func newInvalidStateError(format string, a ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, a...)}
}

// DuplicateIdentityError wraps ErrDuplicateIdentity with context.
type DuplicateIdentityError struct {
	Msg string
}

func (e *DuplicateIdentityError) Error() string {
	return "cellmodel: duplicate identity: " + e.Msg
}
func (e *DuplicateIdentityError) Unwrap() error { return ErrDuplicateIdentity }

func newDuplicateIdentityError(format string, a ...interface{}) error {
	return &DuplicateIdentityError{Msg: fmt.Sprintf(format, a...)}
}
