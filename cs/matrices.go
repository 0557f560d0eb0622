package cs

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnarklet/logger"
)

// Entry is a coefficient at a column of the witness vector.
type Entry struct {
	Coeff  fr.Element
	Column int
}

// SparseMatrix holds one row per constraint; each row lists its non-zero
// entries in column order.
type SparseMatrix [][]Entry

// Matrices are the three sparse constraint matrices of a finalized system,
// all indexed against the same witness vector z: row i asserts
// (A[i]·z)·(B[i]·z) = (C[i]·z).
type Matrices struct {
	A, B, C SparseMatrix

	NbConstraints int
	NbWires       int
	// NbPublic counts the public columns of z, the constant column included.
	NbPublic int
}

// column maps a variable to its position in the witness vector
// [1, public..., secret..., internal...].
func (s *System) column(v Variable) int {
	switch v.visibility {
	case Constant:
		return 0
	case Public:
		return 1 + v.index
	case Secret:
		return 1 + s.nbPublic + v.index
	case Internal:
		return 1 + s.nbPublic + s.nbSecret + v.index
	}
	return -1
}

// ToMatrices converts the recorded constraints into sparse matrices over the
// witness vector and finalizes the system; once extracted, the shape is
// immutable and further calls return the same matrices.
//
// A composite linear combination reused as an operand in several constraints
// is inlined: it gets a synthetic column appended to the witness vector
// (valued by evaluating the combination against the current assignment) and
// the rows referencing it are rewritten against that column. Synthetic
// columns are allocated in first-use order, so extracting twice from
// identically built systems yields identical matrices.
func (s *System) ToMatrices() (*Matrices, error) {
	if s.matrices != nil {
		return s.matrices, nil
	}
	if len(s.constraints) == 0 {
		return nil, fmt.Errorf("%w: system has no constraints", ErrMatrixExtraction)
	}

	// count how many times each composite operand appears
	counts := make(map[string]int)
	for _, c := range s.constraints {
		for _, lc := range [3]LinearCombination{c.L, c.R, c.O} {
			if len(lc) > 1 {
				counts[lc.signature()]++
			}
		}
	}

	// give every reused composite operand its synthetic column
	outlined := make(map[string]Variable)
	for _, c := range s.constraints {
		for _, lc := range [3]LinearCombination{c.L, c.R, c.O} {
			if len(lc) <= 1 || counts[lc.signature()] < 2 {
				continue
			}
			sig := lc.signature()
			if _, ok := outlined[sig]; ok {
				continue
			}
			var val fr.Element
			if s.mode == SynthesisProve {
				v, err := s.Evaluate(lc)
				if err != nil {
					return nil, fmt.Errorf("%w: %s", ErrMatrixExtraction, err)
				}
				val = v
			}
			outlined[sig] = s.allocateInternal(val)
		}
	}

	s.finalized = true

	nbWires := 1 + s.nbPublic + s.nbSecret + s.nbInternal
	m := &Matrices{
		A:             make(SparseMatrix, 0, len(s.constraints)),
		B:             make(SparseMatrix, 0, len(s.constraints)),
		C:             make(SparseMatrix, 0, len(s.constraints)),
		NbConstraints: len(s.constraints),
		NbWires:       nbWires,
		NbPublic:      1 + s.nbPublic,
	}

	var one fr.Element
	one.SetOne()
	seen := bitset.New(uint(nbWires))
	seen.Set(0)

	resolve := func(lc LinearCombination) ([]Entry, error) {
		if len(lc) > 1 {
			if v, ok := outlined[lc.signature()]; ok {
				col := s.column(v)
				seen.Set(uint(col))
				return []Entry{{Coeff: one, Column: col}}, nil
			}
		}
		row := make([]Entry, 0, len(lc))
		for _, t := range lc {
			col := s.column(t.Variable)
			if col < 0 || col >= nbWires {
				return nil, fmt.Errorf("%w: column %d outside witness vector of length %d", ErrMatrixExtraction, col, nbWires)
			}
			seen.Set(uint(col))
			row = append(row, Entry{Coeff: t.Coeff, Column: col})
		}
		return row, nil
	}

	for _, c := range s.constraints {
		rowA, err := resolve(c.L)
		if err != nil {
			return nil, err
		}
		rowB, err := resolve(c.R)
		if err != nil {
			return nil, err
		}
		rowC, err := resolve(c.O)
		if err != nil {
			return nil, err
		}
		m.A = append(m.A, rowA)
		m.B = append(m.B, rowB)
		m.C = append(m.C, rowC)
	}

	if unconstrained := nbWires - int(seen.Count()); unconstrained > 0 {
		log := logger.Logger()
		log.Debug().
			Int("nbWires", unconstrained).
			Msg("witness columns never referenced by a constraint")
	}

	s.matrices = m
	return m, nil
}

// Vector returns the witness vector z = [1, public..., secret...,
// internal...]. It requires a system built in prove mode; call it after
// ToMatrices so z includes the synthetic columns.
func (s *System) Vector() ([]fr.Element, error) {
	if s.mode == SynthesisSetup {
		return nil, ErrMissingAssignment
	}
	z := make([]fr.Element, 0, 1+len(s.public)+len(s.secret)+len(s.internal))
	var one fr.Element
	one.SetOne()
	z = append(z, one)
	z = append(z, s.public...)
	z = append(z, s.secret...)
	z = append(z, s.internal...)
	return z, nil
}

// Evaluate computes the per-row dot products a = A·z, b = B·z, c = C·z.
func (m *Matrices) Evaluate(z []fr.Element) (a, b, c []fr.Element, err error) {
	if len(z) != m.NbWires {
		return nil, nil, nil, ErrVectorMismatch
	}
	evalRows := func(mat SparseMatrix) []fr.Element {
		res := make([]fr.Element, len(mat))
		var tmp fr.Element
		for i, row := range mat {
			for _, e := range row {
				tmp.Mul(&e.Coeff, &z[e.Column])
				res[i].Add(&res[i], &tmp)
			}
		}
		return res
	}
	return evalRows(m.A), evalRows(m.B), evalRows(m.C), nil
}

// Satisfied checks (A·z)∘(B·z) = C·z row by row, reporting the first failing
// row.
func (m *Matrices) Satisfied(z []fr.Element) error {
	a, b, c, err := m.Evaluate(z)
	if err != nil {
		return err
	}
	var prod fr.Element
	for i := range a {
		prod.Mul(&a[i], &b[i])
		if !prod.Equal(&c[i]) {
			return &UnsatisfiedConstraintError{Row: i}
		}
	}
	return nil
}
