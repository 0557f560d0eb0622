// Package cs provides a Rank-1 Constraint System (R1CS) builder over the
// BLS12-381 scalar field.
//
// A System records constraints of the form (L·z)·(R·z) = (O·z), where L, R
// and O are linear combinations of allocated variables and z is the witness
// vector [1, public inputs..., secret inputs..., internal wires...]. Once the
// sparse constraint matrices are extracted with ToMatrices, the system is
// finalized and no further allocation or constraint is accepted.
package cs
