package cs

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

// buildCubic records x**3 + x + 5 = y with the given assignment.
func buildCubic(t *testing.T, x, y uint64, opts ...Option) *System {
	t.Helper()
	s := NewSystem(opts...)

	var xv, yv fr.Element
	xv.SetUint64(x)
	yv.SetUint64(y)

	yVar, err := s.AllocatePublic(yv)
	require.NoError(t, err)
	xVar, err := s.AllocateWitness(xv)
	require.NoError(t, err)

	x2, err := s.Mul(FromVariable(xVar), FromVariable(xVar))
	require.NoError(t, err)
	x3, err := s.Mul(FromVariable(x2), FromVariable(xVar))
	require.NoError(t, err)

	var five fr.Element
	five.SetUint64(5)
	require.NoError(t, s.AssertIsEqual(
		Add(FromConstant(five), FromVariable(xVar), FromVariable(x3)),
		FromVariable(yVar),
	))
	return s
}

func TestIsSatisfied(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.NoError(buildCubic(t, 3, 35).IsSatisfied())
	assert.NoError(buildCubic(t, 0, 5).IsSatisfied())

	err := buildCubic(t, 3, 36).IsSatisfied()
	assert.Error(err)
	var ucErr *UnsatisfiedConstraintError
	assert.ErrorAs(err, &ucErr)
	assert.Equal(2, ucErr.Row)
}

func TestFinalizedSystemRejectsMutation(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	s := buildCubic(t, 3, 35)
	_, err := s.ToMatrices()
	assert.NoError(err)

	_, err = s.AllocatePublic(fr.Element{})
	assert.ErrorIs(err, ErrSystemFinalized)
	_, err = s.AllocateWitness(fr.Element{})
	assert.ErrorIs(err, ErrSystemFinalized)
	assert.ErrorIs(s.Enforce(nil, nil, nil), ErrSystemFinalized)
	_, err = s.Mul(nil, nil)
	assert.ErrorIs(err, ErrSystemFinalized)

	// extraction and evaluation still work after finalization
	_, err = s.ToMatrices()
	assert.NoError(err)
	assert.NoError(s.IsSatisfied())
}

func TestSetupModeDiscardsAssignment(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	s := buildCubic(t, 3, 35, WithSynthesisMode(SynthesisSetup))
	assert.Equal(3, s.NbConstraints())
	assert.Equal(1, s.NbPublicInputs())
	assert.Equal(1, s.NbPrivateInputs())

	assert.ErrorIs(s.IsSatisfied(), ErrMissingAssignment)
	_, err := s.Vector()
	assert.ErrorIs(err, ErrMissingAssignment)
	_, err = s.Evaluate(FromVariable(One()))
	assert.ErrorIs(err, ErrMissingAssignment)

	// the shape is still fully extractable
	m, err := s.ToMatrices()
	assert.NoError(err)
	assert.Equal(3, m.NbConstraints)
	assert.Equal(5, m.NbWires)
}

func TestInverse(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	s := NewSystem()
	var seven fr.Element
	seven.SetUint64(7)
	x, err := s.AllocateWitness(seven)
	assert.NoError(err)

	inv, err := s.Inverse(x)
	assert.NoError(err)
	assert.NoError(s.IsSatisfied())

	got, err := s.Evaluate(FromVariable(inv))
	assert.NoError(err)
	var want fr.Element
	want.Inverse(&seven)
	assert.True(got.Equal(&want))
}

func TestInverseOfZero(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	s := NewSystem()
	x, err := s.AllocateWitness(fr.Element{})
	assert.NoError(err)
	_, err = s.Inverse(x)
	assert.ErrorIs(err, ErrDivideByZero)
}

func TestInverseShapeOnly(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	// in setup mode the zero value carries no meaning, the gadget must
	// still record its constraint
	s := NewSystem(WithSynthesisMode(SynthesisSetup))
	x, err := s.AllocateWitness(fr.Element{})
	assert.NoError(err)
	_, err = s.Inverse(x)
	assert.NoError(err)
	assert.Equal(1, s.NbConstraints())
}

func TestWitnessFlip(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	s := buildCubic(t, 3, 35)
	m, err := s.ToMatrices()
	assert.NoError(err)
	z, err := s.Vector()
	assert.NoError(err)
	assert.NoError(m.Satisfied(z))

	// flipping any single entry away from its correct value breaks at
	// least one constraint
	var one fr.Element
	one.SetOne()
	for i := range z {
		flipped := make([]fr.Element, len(z))
		copy(flipped, z)
		flipped[i].Add(&flipped[i], &one)
		assert.Error(m.Satisfied(flipped), "entry %d", i)
	}
}
