// Package gnarklet is a minimal zkSNARK engine: it records an arithmetic
// statement as a Rank-1 Constraint System (R1CS), extracts the sparse
// constraint matrices against a concrete witness vector, and runs a
// Groth16 setup/prove/verify pipeline on top of them.
//
// Field, curve and pairing arithmetic come from gnark-crypto; the engine
// is fixed to BLS12-381.
package gnarklet

import (
	"github.com/consensys/gnark-crypto/ecc"
)

// Version of the gnarklet library
const Version = "0.1.0"

// Curve returns the curve the engine operates on.
func Curve() ecc.ID {
	return ecc.BLS12_381
}
