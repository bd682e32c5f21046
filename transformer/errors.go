package transformer

import (
	"errors"
	"fmt"
)

// Transformation errors. Batch operations wrap these in an OperationError;
// the direct methods return them as is.
var (
	// ErrTransformFailed marks every failed operation, whatever the root
	// cause. errors.Is finds it through an OperationError.
	ErrTransformFailed = errors.New("transformation failed")
	// ErrInvalidTarget is returned when the path resolves to a node the
	// operation cannot edit.
	ErrInvalidTarget = errors.New("path target does not support this operation")
	// ErrUnknownFragment is returned when a spread references a fragment
	// definition the document does not contain.
	ErrUnknownFragment = errors.New("fragment definition not found")
	// ErrFragmentExists is returned when extracting to a fragment name the
	// document already defines.
	ErrFragmentExists = errors.New("fragment already defined")
	// ErrInvalidValue is returned for value literals that cannot be parsed
	// into a scalar GraphQL value.
	ErrInvalidValue = errors.New("invalid value literal")
	// ErrUnknownOperation is returned for batch operations with an
	// unrecognized kind.
	ErrUnknownOperation = errors.New("unknown operation kind")
	// ErrMissingParameter is returned when an operation lacks a required
	// parameter.
	ErrMissingParameter = errors.New("missing operation parameter")
)

// OperationError reports one failed batch operation with enough context to
// identify it in the batch.
type OperationError struct {
	ID     string
	Kind   OpKind
	Path   string
	Reason error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s (%s %s): %v", e.ID, e.Kind, e.Path, e.Reason)
}

func (e *OperationError) Unwrap() []error {
	return []error{e.Reason, ErrTransformFailed}
}
