package cs

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnarklet/logger"
)

// SynthesisMode selects what a System records during circuit synthesis.
type SynthesisMode uint8

const (
	// SynthesisProve records the full assignment alongside the constraint
	// shape; matrices, witness vector and satisfaction checks are available.
	SynthesisProve SynthesisMode = iota
	// SynthesisSetup records the constraint shape only. Allocation values
	// are discarded, which is sufficient to derive a CRS.
	SynthesisSetup
)

// R1C is a rank-1 constraint (L·z)·(R·z) = (O·z).
type R1C struct {
	L, R, O LinearCombination
}

// Circuit is the capability a relation must expose to be compiled into a
// System. Define is invoked exactly once per System.
type Circuit interface {
	Define(sys *System) error
}

// System is an ordered list of rank-1 constraints together with the
// assignment of every allocated wire. It is created in recording state and
// becomes immutable once ToMatrices finalizes it.
//
// A System is not safe for concurrent mutation; variable and constraint
// ordering is part of the data model.
type System struct {
	mode      SynthesisMode
	finalized bool

	constraints []R1C

	// assignments per visibility block; the constant wire 1 is implicit.
	// In setup mode only the counters are maintained.
	public, secret, internal       []fr.Element
	nbPublic, nbSecret, nbInternal int

	matrices *Matrices
}

// Option configures a System at construction time.
type Option func(*System)

// WithSynthesisMode sets the synthesis mode of the system.
func WithSynthesisMode(mode SynthesisMode) Option {
	return func(s *System) {
		s.mode = mode
	}
}

// NewSystem returns an empty constraint system in recording state.
func NewSystem(opts ...Option) *System {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build compiles a circuit into a constraint system by invoking its Define
// capability exactly once.
func Build(circuit Circuit, opts ...Option) (*System, error) {
	s := NewSystem(opts...)
	if err := circuit.Define(s); err != nil {
		return nil, fmt.Errorf("cs: circuit synthesis: %w", err)
	}
	log := logger.Logger()
	log.Debug().
		Int("nbConstraints", len(s.constraints)).
		Int("nbPublic", s.nbPublic).
		Int("nbSecret", s.nbSecret).
		Msg("circuit compiled")
	return s, nil
}

// AllocatePublic appends a public input to the instance and returns its
// variable. In setup mode the value is discarded.
func (s *System) AllocatePublic(value fr.Element) (Variable, error) {
	if s.finalized {
		return Variable{}, ErrSystemFinalized
	}
	v := Variable{visibility: Public, index: s.nbPublic}
	s.nbPublic++
	if s.mode == SynthesisProve {
		s.public = append(s.public, value)
	}
	return v, nil
}

// AllocateWitness appends a secret input to the witness and returns its
// variable. In setup mode the value is discarded.
func (s *System) AllocateWitness(value fr.Element) (Variable, error) {
	if s.finalized {
		return Variable{}, ErrSystemFinalized
	}
	v := Variable{visibility: Secret, index: s.nbSecret}
	s.nbSecret++
	if s.mode == SynthesisProve {
		s.secret = append(s.secret, value)
	}
	return v, nil
}

// allocateInternal appends a synthetic wire. Callers must have checked the
// system is not finalized, except matrix extraction which allocates the
// synthetic columns itself right before finalizing.
func (s *System) allocateInternal(value fr.Element) Variable {
	v := Variable{visibility: Internal, index: s.nbInternal}
	s.nbInternal++
	if s.mode == SynthesisProve {
		s.internal = append(s.internal, value)
	}
	return v
}

// Enforce appends the constraint (l·z)·(r·z) = (o·z).
func (s *System) Enforce(l, r, o LinearCombination) error {
	if s.finalized {
		return ErrSystemFinalized
	}
	s.constraints = append(s.constraints, R1C{L: l.Clone(), R: r.Clone(), O: o.Clone()})
	return nil
}

// NbConstraints returns the number of recorded constraints.
func (s *System) NbConstraints() int {
	return len(s.constraints)
}

// NbPublicInputs returns the number of public inputs, the constant wire
// excluded.
func (s *System) NbPublicInputs() int {
	return s.nbPublic
}

// NbPrivateInputs returns the number of secret inputs.
func (s *System) NbPrivateInputs() int {
	return s.nbSecret
}

// value returns the assignment of a single wire.
func (s *System) value(v Variable) (fr.Element, error) {
	var res fr.Element
	switch v.visibility {
	case Constant:
		res.SetOne()
		return res, nil
	case Public:
		if v.index >= len(s.public) {
			return res, fmt.Errorf("cs: public wire %d has no value", v.index)
		}
		return s.public[v.index], nil
	case Secret:
		if v.index >= len(s.secret) {
			return res, fmt.Errorf("cs: secret wire %d has no value", v.index)
		}
		return s.secret[v.index], nil
	case Internal:
		if v.index >= len(s.internal) {
			return res, fmt.Errorf("cs: internal wire %d has no value", v.index)
		}
		return s.internal[v.index], nil
	}
	return res, fmt.Errorf("cs: wire with unset visibility")
}

// Evaluate computes the value of a linear combination against the current
// assignment.
func (s *System) Evaluate(lc LinearCombination) (fr.Element, error) {
	var res, tmp fr.Element
	if s.mode == SynthesisSetup {
		return res, ErrMissingAssignment
	}
	for _, t := range lc {
		val, err := s.value(t.Variable)
		if err != nil {
			return res, err
		}
		tmp.Mul(&t.Coeff, &val)
		res.Add(&res, &tmp)
	}
	return res, nil
}

// IsSatisfied checks every constraint against the current assignment. It
// returns nil when the assignment satisfies the system, and an
// UnsatisfiedConstraintError carrying the first failing row otherwise.
func (s *System) IsSatisfied() error {
	if s.mode == SynthesisSetup {
		return ErrMissingAssignment
	}
	var prod fr.Element
	for i, c := range s.constraints {
		l, err := s.Evaluate(c.L)
		if err != nil {
			return err
		}
		r, err := s.Evaluate(c.R)
		if err != nil {
			return err
		}
		o, err := s.Evaluate(c.O)
		if err != nil {
			return err
		}
		prod.Mul(&l, &r)
		if !prod.Equal(&o) {
			return &UnsatisfiedConstraintError{Row: i}
		}
	}
	return nil
}

// Mul allocates the product of two linear combinations as a new internal
// wire v and enforces a·b = v.
func (s *System) Mul(a, b LinearCombination) (Variable, error) {
	if s.finalized {
		return Variable{}, ErrSystemFinalized
	}
	var val fr.Element
	if s.mode == SynthesisProve {
		av, err := s.Evaluate(a)
		if err != nil {
			return Variable{}, err
		}
		bv, err := s.Evaluate(b)
		if err != nil {
			return Variable{}, err
		}
		val.Mul(&av, &bv)
	}
	v := s.allocateInternal(val)
	if err := s.Enforce(a, b, FromVariable(v)); err != nil {
		return Variable{}, err
	}
	return v, nil
}

// Inverse allocates the inverse of x as a new internal wire w and enforces
// x·w = 1. It fails with ErrDivideByZero when x is assigned zero.
func (s *System) Inverse(x Variable) (Variable, error) {
	if s.finalized {
		return Variable{}, ErrSystemFinalized
	}
	var val fr.Element
	if s.mode == SynthesisProve {
		xv, err := s.value(x)
		if err != nil {
			return Variable{}, err
		}
		if xv.IsZero() {
			return Variable{}, ErrDivideByZero
		}
		val.Inverse(&xv)
	}
	v := s.allocateInternal(val)
	var one fr.Element
	one.SetOne()
	if err := s.Enforce(FromVariable(x), FromVariable(v), FromConstant(one)); err != nil {
		return Variable{}, err
	}
	return v, nil
}

// AssertIsEqual enforces a = b, as (a-b)·1 = 0.
func (s *System) AssertIsEqual(a, b LinearCombination) error {
	return s.Enforce(Sub(a, b), FromVariable(One()), LinearCombination{})
}
