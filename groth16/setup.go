package groth16

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnarklet/cs"
	"github.com/consensys/gnarklet/logger"
)

// ProvingKey is used by a Groth16 prover to encode a proof of a statement.
type ProvingKey struct {
	// Domain is the evaluation domain of the quadratic arithmetic program;
	// its cardinality is the constraint count rounded up to a power of two.
	Domain fft.Domain

	// [α]1, [β]1, [δ]1
	// [A(t)]1, [B(t)]1, [Kpk(t)]1, [Z(t)]1
	G1 struct {
		Alpha, Beta, Delta curve.G1Affine
		A, B, Z            []curve.G1Affine
		K                  []curve.G1Affine // the indexes correspond to the private wires
	}

	// [β]2, [δ]2, [B(t)]2
	G2 struct {
		Beta, Delta curve.G2Affine
		B           []curve.G2Affine
	}
}

// VerifyingKey is used by a Groth16 verifier to check the validity of a proof
// against a statement. Its size does not depend on the witness size.
type VerifyingKey struct {
	// e(α, β)
	E curve.GT

	// -[γ]2, -[δ]2
	// note: storing GammaNeg and DeltaNeg instead of Gamma and Delta
	// saves two negations per Verify call
	G2 struct {
		GammaNeg, DeltaNeg curve.G2Affine
	}

	// [Kvk]1; the indexes correspond to the public wires, K[0] being the
	// constant wire
	G1 struct {
		K []curve.G1Affine
	}
}

// toxicWaste holds the trapdoor scalars sampled during Setup. It lives in
// Setup stack locals only: any retained copy is a forgery vector.
type toxicWaste struct {
	t, alpha, beta, gamma, delta fr.Element
}

// Setup constructs the CRS for the given constraint matrices. The trapdoor
// scalars are sampled from rng and are unreachable after the call returns.
// The resulting keys are valid for the exact matrix shape only: any change in
// row order or column count invalidates every proof produced against them.
func Setup(m *cs.Matrices, rng io.Reader) (*ProvingKey, *VerifyingKey, error) {
	if m == nil || m.NbConstraints == 0 {
		return nil, nil, ErrEmptyMatrices
	}

	log := logger.Logger().With().
		Str("curve", "bls12-381").
		Int("nbConstraints", m.NbConstraints).
		Str("backend", "groth16").Logger()
	start := time.Now()

	domain := fft.NewDomain(uint64(m.NbConstraints))

	tw, err := sampleToxicWaste(rng, domain)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16: sampling toxic waste: %w", err)
	}

	nbWires := m.NbWires
	nbPublic := m.NbPublic
	nbPrivate := nbWires - nbPublic

	// per-wire evaluations A_i(t), B_i(t), C_i(t) of the QAP basis
	A, B, C := evaluateQAP(m, domain, &tw)

	// K vectors: (βA_i(t) + αB_i(t) + C_i(t))/γ for public wires,
	// (βA_i(t) + αB_i(t) + C_i(t))/δ for private wires
	var gammaInv, deltaInv fr.Element
	gammaInv.Inverse(&tw.gamma)
	deltaInv.Inverse(&tw.delta)

	vkK := make([]fr.Element, nbPublic)
	pkK := make([]fr.Element, nbPrivate)
	var kv, tt fr.Element
	for i := 0; i < nbWires; i++ {
		kv.Mul(&A[i], &tw.beta)
		tt.Mul(&B[i], &tw.alpha)
		kv.Add(&kv, &tt).Add(&kv, &C[i])
		if i < nbPublic {
			vkK[i].Mul(&kv, &gammaInv)
		} else {
			pkK[i-nbPublic].Mul(&kv, &deltaInv)
		}
	}

	// Z part: t^j·(t^n - 1)/δ for j in [0, n)
	n := int(domain.Cardinality)
	var one, zdt fr.Element
	one.SetOne()
	zdt.Exp(tw.t, big.NewInt(int64(n))).
		Sub(&zdt, &one).
		Mul(&zdt, &deltaInv)
	Zdt := make([]fr.Element, n)
	for j := 0; j < n; j++ {
		Zdt[j].Set(&zdt)
		zdt.Mul(&zdt, &tw.t)
	}

	_, _, g1, g2 := curve.Generators()

	pk := &ProvingKey{Domain: *domain}
	vk := &VerifyingKey{}

	pk.G1.A = curve.BatchScalarMultiplicationG1(&g1, A)
	pk.G1.B = curve.BatchScalarMultiplicationG1(&g1, B)
	pk.G1.K = curve.BatchScalarMultiplicationG1(&g1, pkK)
	pk.G1.Z = curve.BatchScalarMultiplicationG1(&g1, Zdt)
	pk.G2.B = curve.BatchScalarMultiplicationG2(&g2, B)
	vk.G1.K = curve.BatchScalarMultiplicationG1(&g1, vkK)

	g1Singles := curve.BatchScalarMultiplicationG1(&g1, []fr.Element{tw.alpha, tw.beta, tw.delta})
	pk.G1.Alpha = g1Singles[0]
	pk.G1.Beta = g1Singles[1]
	pk.G1.Delta = g1Singles[2]

	g2Singles := curve.BatchScalarMultiplicationG2(&g2, []fr.Element{tw.beta, tw.delta, tw.gamma})
	pk.G2.Beta = g2Singles[0]
	pk.G2.Delta = g2Singles[1]
	vk.G2.DeltaNeg.Neg(&g2Singles[1])
	vk.G2.GammaNeg.Neg(&g2Singles[2])

	vk.E, err = curve.Pair([]curve.G1Affine{pk.G1.Alpha}, []curve.G2Affine{pk.G2.Beta})
	if err != nil {
		return nil, nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("setup done")
	return pk, vk, nil
}

// sampleToxicWaste draws the trapdoor scalars from rng. The evaluation point
// t must stay outside the domain so that the vanishing polynomial t^n - 1 is
// invertible.
func sampleToxicWaste(rng io.Reader, domain *fft.Domain) (toxicWaste, error) {
	var tw toxicWaste
	var err error
	if tw.alpha, err = sampleNonZero(rng); err != nil {
		return tw, err
	}
	if tw.beta, err = sampleNonZero(rng); err != nil {
		return tw, err
	}
	if tw.gamma, err = sampleNonZero(rng); err != nil {
		return tw, err
	}
	if tw.delta, err = sampleNonZero(rng); err != nil {
		return tw, err
	}

	var one, vanishing fr.Element
	one.SetOne()
	for {
		if tw.t, err = sampleNonZero(rng); err != nil {
			return tw, err
		}
		vanishing.Exp(tw.t, big.NewInt(int64(domain.Cardinality)))
		vanishing.Sub(&vanishing, &one)
		if !vanishing.IsZero() {
			return tw, nil
		}
	}
}

func sampleNonZero(rng io.Reader) (fr.Element, error) {
	var el fr.Element
	for {
		n, err := rand.Int(rng, fr.Modulus())
		if err != nil {
			return el, err
		}
		if n.Sign() == 0 {
			continue
		}
		el.SetBigInt(n)
		return el, nil
	}
}

// evaluateQAP accumulates, for every wire, the evaluation at t of its QAP
// basis polynomials, walking the constraint rows once with the running
// Lagrange polynomial:
// L_0(t) = (t^n - 1)/(n·(t - 1)), L_{i+1}(t) = w·L_i(t)·(t - w^i)/(t - w^{i+1})
func evaluateQAP(m *cs.Matrices, domain *fft.Domain, tw *toxicWaste) (A, B, C []fr.Element) {
	A = make([]fr.Element, m.NbWires)
	B = make([]fr.Element, m.NbWires)
	C = make([]fr.Element, m.NbWires)

	var one fr.Element
	one.SetOne()

	var L, tmp fr.Element
	L.Exp(tw.t, big.NewInt(int64(domain.Cardinality))).
		Sub(&L, &one)
	tmp.Sub(&tw.t, &one)
	L.Div(&L, &tmp).
		Mul(&L, &domain.CardinalityInv)

	w := domain.Generator
	var wi fr.Element
	wi.SetOne()

	accumulate := func(dst []fr.Element, row []cs.Entry) {
		var t fr.Element
		for _, e := range row {
			t.Mul(&L, &e.Coeff)
			dst[e.Column].Add(&dst[e.Column], &t)
		}
	}

	for i := 0; i < m.NbConstraints; i++ {
		accumulate(A, m.A[i])
		accumulate(B, m.B[i])
		accumulate(C, m.C[i])

		L.Mul(&L, &w)
		tmp.Sub(&tw.t, &wi)
		L.Mul(&L, &tmp)
		wi.Mul(&wi, &w)
		tmp.Sub(&tw.t, &wi)
		L.Div(&L, &tmp)
	}
	return
}
