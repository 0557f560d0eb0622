// Package groth16 exposes the three zkSNARK (Groth16) algorithms: Setup,
// Prove and Verify, instantiated on BLS12-381.
//
// Setup derives a proving key and a verifying key (the CRS) from the sparse
// constraint matrices of a finalized cs.System. The CRS is tied to the exact
// matrix shape it was derived from; both keys are immutable and may be shared
// by unlimited concurrent Prove and Verify calls. Randomness sources are
// consumed per call and must not be shared across concurrent calls without
// external synchronization.
package groth16

import (
	"errors"
)

var (
	// ErrEmptyMatrices is returned by Setup when the constraint matrices
	// have no row.
	ErrEmptyMatrices = errors.New("groth16: setup requires a non-empty constraint system")

	// ErrInconsistentWitness is returned by Prove when the supplied witness
	// vector does not satisfy the constraint system; no proof element is
	// computed in that case.
	ErrInconsistentWitness = errors.New("groth16: witness does not satisfy the constraint system")

	// ErrMalformedProof is returned by Verify when a proof element is not a
	// valid group element (wrong subgroup, or a disallowed identity).
	// A well-formed proof that merely fails the pairing check is not an
	// error: Verify returns false with a nil error.
	ErrMalformedProof = errors.New("groth16: proof contains malformed group elements")

	// ErrInvalidPublicInput is returned by Verify when the public input
	// vector length does not match the verifying key.
	ErrInvalidPublicInput = errors.New("groth16: public input length does not match the verifying key")
)
