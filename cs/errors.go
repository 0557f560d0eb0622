package cs

import (
	"errors"
	"fmt"
)

var (
	// ErrSystemFinalized is returned when allocating a variable or adding a
	// constraint after the matrices have been extracted.
	ErrSystemFinalized = errors.New("cs: constraint system is finalized")

	// ErrMissingAssignment is returned when evaluating a system built in
	// setup mode, where only the constraint shape is recorded.
	ErrMissingAssignment = errors.New("cs: system was built in setup mode, no assignment recorded")

	// ErrDivideByZero is returned by gadgets whose witness computation needs
	// the inverse of a zero value.
	ErrDivideByZero = errors.New("cs: division by zero")

	// ErrMatrixExtraction is returned when the constraint list cannot be
	// converted into sparse matrices.
	ErrMatrixExtraction = errors.New("cs: matrix extraction failed")

	// ErrVectorMismatch is returned when a witness vector length does not
	// match the matrix column count.
	ErrVectorMismatch = errors.New("cs: witness vector length does not match matrix columns")
)

// UnsatisfiedConstraintError reports the first constraint a witness vector
// fails to satisfy.
type UnsatisfiedConstraintError struct {
	Row int
}

func (e *UnsatisfiedConstraintError) Error() string {
	return fmt.Sprintf("cs: constraint #%d is not satisfied", e.Row)
}
