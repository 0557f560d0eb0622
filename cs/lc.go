package cs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Term is a coefficient attached to a variable.
type Term struct {
	Coeff    fr.Element
	Variable Variable
}

// LinearCombination is a weighted sum of variables. It is kept in canonical
// form: terms sorted by witness column, duplicate variables merged, zero
// coefficients pruned. All operations are pure and never mutate their inputs.
type LinearCombination []Term

// FromVariable returns the linear combination 1·v.
func FromVariable(v Variable) LinearCombination {
	var one fr.Element
	one.SetOne()
	return LinearCombination{{Coeff: one, Variable: v}}
}

// FromConstant returns the linear combination k·1 on the constant wire.
func FromConstant(k fr.Element) LinearCombination {
	if k.IsZero() {
		return LinearCombination{}
	}
	return LinearCombination{{Coeff: k, Variable: One()}}
}

// Add returns the sum of the given linear combinations.
func Add(lcs ...LinearCombination) LinearCombination {
	size := 0
	for _, lc := range lcs {
		size += len(lc)
	}
	merged := make(LinearCombination, 0, size)
	for _, lc := range lcs {
		merged = append(merged, lc...)
	}
	return normalize(merged)
}

// Sub returns a - b.
func Sub(a, b LinearCombination) LinearCombination {
	var minusOne fr.Element
	minusOne.SetOne().Neg(&minusOne)
	return Add(a, Scale(b, minusOne))
}

// Scale returns k·lc.
func Scale(lc LinearCombination, k fr.Element) LinearCombination {
	if k.IsZero() {
		return LinearCombination{}
	}
	res := make(LinearCombination, len(lc))
	for i, t := range lc {
		res[i].Variable = t.Variable
		res[i].Coeff.Mul(&t.Coeff, &k)
	}
	return res
}

// Clone returns a deep copy of the linear combination.
func (lc LinearCombination) Clone() LinearCombination {
	res := make(LinearCombination, len(lc))
	copy(res, lc)
	return res
}

// normalize sorts terms by witness column, merges duplicates and prunes zero
// coefficients. The input slice is owned by the caller and may be reordered.
func normalize(lc LinearCombination) LinearCombination {
	sort.SliceStable(lc, func(i, j int) bool {
		return lessVar(lc[i].Variable, lc[j].Variable)
	})
	res := make(LinearCombination, 0, len(lc))
	for _, t := range lc {
		n := len(res)
		if n > 0 && res[n-1].Variable == t.Variable {
			res[n-1].Coeff.Add(&res[n-1].Coeff, &t.Coeff)
			continue
		}
		res = append(res, t)
	}
	// prune zero coefficients (including cancellations from the merge)
	pruned := res[:0]
	for _, t := range res {
		if !t.Coeff.IsZero() {
			pruned = append(pruned, t)
		}
	}
	return pruned
}

// signature returns a canonical encoding of the linear combination, used to
// detect reuse of the same composite operand across constraints.
func (lc LinearCombination) signature() string {
	var sb strings.Builder
	for _, t := range lc {
		sb.WriteString(t.Variable.visibility.String())
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(t.Variable.index))
		sb.WriteByte('*')
		sb.WriteString(t.Coeff.Text(16))
		sb.WriteByte('+')
	}
	return sb.String()
}

func (lc LinearCombination) String() string {
	if len(lc) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range lc {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(t.Coeff.String())
		sb.WriteByte('*')
		sb.WriteString(t.Variable.visibility.String())
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.Variable.index))
		sb.WriteByte(']')
	}
	return sb.String()
}
