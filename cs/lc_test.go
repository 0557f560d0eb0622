package cs

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func genFr() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		var elmt fr.Element
		elmt.SetRandom()
		return gopter.NewGenResult(elmt, gopter.NoShrinker)
	}
}

// genLC draws a linear combination over a small fixed set of wires, so that
// duplicate variables across generated values are likely.
func genLC() gopter.Gen {
	wires := []Variable{
		One(),
		{visibility: Public, index: 0},
		{visibility: Public, index: 1},
		{visibility: Secret, index: 0},
		{visibility: Secret, index: 1},
		{visibility: Internal, index: 0},
	}
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		n := int(genParams.NextUint64() % uint64(len(wires)+1))
		lc := make(LinearCombination, 0, n)
		for i := 0; i < n; i++ {
			var coeff fr.Element
			coeff.SetRandom()
			lc = append(lc, Term{
				Coeff:    coeff,
				Variable: wires[genParams.NextUint64()%uint64(len(wires))],
			})
		}
		return gopter.NewGenResult(normalize(lc), gopter.NoShrinker)
	}
}

func equalLC(a, b LinearCombination) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Variable != b[i].Variable || !a[i].Coeff.Equal(&b[i].Coeff) {
			return false
		}
	}
	return true
}

func TestLinearCombinationProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Add is commutative", prop.ForAll(
		func(a, b LinearCombination) bool {
			return equalLC(Add(a, b), Add(b, a))
		},
		genLC(), genLC(),
	))

	properties.Property("Add is associative", prop.ForAll(
		func(a, b, c LinearCombination) bool {
			return equalLC(Add(Add(a, b), c), Add(a, Add(b, c)))
		},
		genLC(), genLC(), genLC(),
	))

	properties.Property("Scale distributes over Add", prop.ForAll(
		func(a, b LinearCombination, k fr.Element) bool {
			return equalLC(Scale(Add(a, b), k), Add(Scale(a, k), Scale(b, k)))
		},
		genLC(), genLC(), genFr(),
	))

	properties.Property("Sub(a, a) is the zero combination", prop.ForAll(
		func(a LinearCombination) bool {
			return len(Sub(a, a)) == 0
		},
		genLC(),
	))

	properties.Property("scaling by zero prunes every term", prop.ForAll(
		func(a LinearCombination) bool {
			return len(Scale(a, fr.Element{})) == 0
		},
		genLC(),
	))

	properties.Property("result terms are sorted by column with no duplicates", prop.ForAll(
		func(a, b LinearCombination) bool {
			sum := Add(a, b)
			for i := 1; i < len(sum); i++ {
				if !lessVar(sum[i-1].Variable, sum[i].Variable) {
					return false
				}
			}
			return true
		},
		genLC(), genLC(),
	))

	properties.Property("operations never mutate their inputs", prop.ForAll(
		func(a, b LinearCombination, k fr.Element) bool {
			aBefore, bBefore := a.Clone(), b.Clone()
			_ = Add(a, b)
			_ = Sub(a, b)
			_ = Scale(a, k)
			return equalLC(a, aBefore) && equalLC(b, bBefore)
		},
		genLC(), genLC(), genFr(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLinearCombinationMerge(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	v := Variable{visibility: Secret, index: 0}
	sum := Add(FromVariable(v), FromVariable(v))
	assert.Len(sum, 1)

	var two fr.Element
	two.SetUint64(2)
	assert.True(sum[0].Coeff.Equal(&two))
	assert.Equal(v, sum[0].Variable)
}

func TestFromConstantZero(t *testing.T) {
	t.Parallel()
	require.Empty(t, FromConstant(fr.Element{}))
}
