package groth16

import (
	"fmt"
	"io"
	"math/big"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnarklet/cs"
	"github.com/consensys/gnarklet/debug"
	"github.com/consensys/gnarklet/internal/utils"
	"github.com/consensys/gnarklet/logger"
	"golang.org/x/sync/errgroup"
)

// Proof is a Groth16 proof; 2 G1 points and 1 G2 point, independent of the
// circuit size.
type Proof struct {
	Ar, Krs curve.G1Affine
	Bs      curve.G2Affine
}

// Prove generates a proof that the full assignment z satisfies the constraint
// matrices the proving key was set up for. The blinding scalars r and s are
// drawn from rng, so two proofs of the same statement are distinct group
// elements.
func Prove(m *cs.Matrices, pk *ProvingKey, z []fr.Element, rng io.Reader) (*Proof, error) {
	if len(z) != m.NbWires {
		return nil, fmt.Errorf("%w: got %d values, expected %d", ErrInconsistentWitness, len(z), m.NbWires)
	}

	log := logger.Logger().With().
		Str("curve", "bls12-381").
		Int("nbConstraints", m.NbConstraints).
		Str("backend", "groth16").Logger()
	start := time.Now()

	// solve the system; a, b, c are the per-constraint evaluations
	// ⟨A_i, z⟩, ⟨B_i, z⟩, ⟨C_i, z⟩ and must satisfy a ∘ b = c
	a, b, c, err := m.Evaluate(z)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.NbConstraints; i++ {
		var ab fr.Element
		ab.Mul(&a[i], &b[i])
		if !ab.Equal(&c[i]) {
			return nil, fmt.Errorf("%w: constraint %d unsatisfied", ErrInconsistentWitness, i)
		}
	}

	// blinding
	r, err := sampleNonZero(rng)
	if err != nil {
		return nil, err
	}
	s, err := sampleNonZero(rng)
	if err != nil {
		return nil, err
	}
	var _kr fr.Element
	_kr.Mul(&r, &s).Neg(&_kr)

	// [r]δ, [s]δ, [-rs]δ
	deltas := curve.BatchScalarMultiplicationG1(&pk.G1.Delta, []fr.Element{r, s, _kr})

	proof := &Proof{}
	var bs1, ar curve.G1Jac
	var krs1, krs2 curve.G1Jac

	msmCfg := ecc.MultiExpConfig{NbTasks: runtime.NumCPU() / 2}

	var g errgroup.Group

	var bigR, bigS big.Int
	r.BigInt(&bigR)
	s.BigInt(&bigS)

	g.Go(func() error {
		// Ar = α + Σ z_i·[A_i(t)]1 + r·δ
		if _, err := ar.MultiExp(pk.G1.A, z, msmCfg); err != nil {
			return err
		}
		ar.AddMixed(&pk.G1.Alpha)
		ar.AddMixed(&deltas[0])
		proof.Ar.FromJacobian(&ar)
		return nil
	})

	g.Go(func() error {
		// Bs = β + Σ z_i·[B_i(t)]2 + s·δ
		var bs2 curve.G2Jac
		if _, err := bs2.MultiExp(pk.G2.B, z, msmCfg); err != nil {
			return err
		}
		var deltaS curve.G2Jac
		deltaS.FromAffine(&pk.G2.Delta)
		deltaS.ScalarMultiplication(&deltaS, &bigS)
		bs2.AddAssign(&deltaS)
		bs2.AddMixed(&pk.G2.Beta)
		proof.Bs.FromJacobian(&bs2)
		return nil
	})

	g.Go(func() error {
		// bs1 = β + Σ z_i·[B_i(t)]1 + s·δ, needed in G1 for Krs
		if _, err := bs1.MultiExp(pk.G1.B, z, msmCfg); err != nil {
			return err
		}
		bs1.AddMixed(&pk.G1.Beta)
		bs1.AddMixed(&deltas[1])
		return nil
	})

	g.Go(func() error {
		// krs1 = Σ z_priv·[Kpk]1 - rs·δ
		if _, err := krs1.MultiExp(pk.G1.K, z[m.NbPublic:], msmCfg); err != nil {
			return err
		}
		krs1.AddMixed(&deltas[2])
		return nil
	})

	g.Go(func() error {
		// krs2 = Σ h_j·[t^j·Z(t)/δ]1
		h := computeH(a, b, c, &pk.Domain)
		debug.Assert(len(h) == len(pk.G1.Z), "quotient length does not match the key")
		_, err := krs2.MultiExp(pk.G1.Z, h, msmCfg)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Krs = krs1 + krs2 + s·Ar + r·bs1
	var krs, p1 curve.G1Jac
	krs.Set(&krs1)
	krs.AddAssign(&krs2)
	p1.FromAffine(&proof.Ar)
	p1.ScalarMultiplication(&p1, &bigS)
	krs.AddAssign(&p1)
	p1.Set(&bs1)
	p1.ScalarMultiplication(&p1, &bigR)
	krs.AddAssign(&p1)
	proof.Krs.FromJacobian(&krs)

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")
	return proof, nil
}

// computeH returns the evaluations, on the domain, of the quotient polynomial
// h = (a·b - c)/(X^n - 1), where a, b, c interpolate the per-constraint
// evaluations. The division happens pointwise on a coset where the vanishing
// polynomial has the constant value g^n - 1.
func computeH(a, b, c []fr.Element, domain *fft.Domain) []fr.Element {
	n := len(a)

	// padding to domain cardinality
	padding := make([]fr.Element, int(domain.Cardinality)-n)
	a = append(a, padding...)
	b = append(b, padding...)
	c = append(c, padding...)
	n = len(a)

	domain.FFTInverse(a, fft.DIF)
	domain.FFTInverse(b, fft.DIF)
	domain.FFTInverse(c, fft.DIF)

	domain.FFT(a, fft.DIT, fft.OnCoset())
	domain.FFT(b, fft.DIT, fft.OnCoset())
	domain.FFT(c, fft.DIT, fft.OnCoset())

	// (g^n - 1)⁻¹, constant over the coset
	var den, one fr.Element
	one.SetOne()
	den.Exp(domain.FrMultiplicativeGen, big.NewInt(int64(n)))
	den.Sub(&den, &one).Inverse(&den)

	// h = (a·b - c)/(X^n - 1) on the coset
	utils.Parallelize(n, func(start, end int) {
		for i := start; i < end; i++ {
			a[i].Mul(&a[i], &b[i]).
				Sub(&a[i], &c[i]).
				Mul(&a[i], &den)
		}
	})

	// back to the monomial basis
	domain.FFTInverse(a, fft.DIF, fft.OnCoset())
	fft.BitReverse(a)

	return a
}
