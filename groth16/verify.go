package groth16

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnarklet/logger"
)

// Verify checks the proof against the public inputs. publicInputs must NOT
// include the constant wire; its length is len(vk.G1.K) - 1.
//
// Verify returns (false, nil) for a well formed proof of a false statement,
// and a non-nil error only when the inputs are malformed.
func Verify(proof *Proof, vk *VerifyingKey, publicInputs []fr.Element) (bool, error) {
	if len(publicInputs)+1 != len(vk.G1.K) {
		return false, fmt.Errorf("%w: got %d values, expected %d", ErrInvalidPublicInput, len(publicInputs), len(vk.G1.K)-1)
	}
	if !proofWellFormed(proof) {
		return false, ErrMalformedProof
	}

	log := logger.Logger().With().
		Str("curve", "bls12-381").
		Str("backend", "groth16").Logger()
	start := time.Now()

	// kSum = K[0] + Σ publicInputs_i·K[i+1]
	var kSum curve.G1Jac
	if _, err := kSum.MultiExp(vk.G1.K[1:], publicInputs, ecc.MultiExpConfig{}); err != nil {
		return false, err
	}
	kSum.AddMixed(&vk.G1.K[0])
	var kSumAff curve.G1Affine
	kSumAff.FromJacobian(&kSum)

	// e(Ar, Bs)·e(kSum, -γ)·e(Krs, -δ) == e(α, β)
	ml, err := curve.MillerLoop(
		[]curve.G1Affine{proof.Ar, kSumAff, proof.Krs},
		[]curve.G2Affine{proof.Bs, vk.G2.GammaNeg, vk.G2.DeltaNeg},
	)
	if err != nil {
		return false, err
	}
	res := curve.FinalExponentiation(&ml)

	log.Debug().Dur("took", time.Since(start)).Msg("verifier done")
	return vk.E.Equal(&res), nil
}

// proofWellFormed rejects points at infinity and points outside the
// prime-order subgroups before they reach the pairing.
func proofWellFormed(proof *Proof) bool {
	if proof.Ar.IsInfinity() || proof.Krs.IsInfinity() || proof.Bs.IsInfinity() {
		return false
	}
	if !proof.Ar.IsOnCurve() || !proof.Krs.IsOnCurve() || !proof.Bs.IsOnCurve() {
		return false
	}
	if !proof.Ar.IsInSubGroup() || !proof.Krs.IsInSubGroup() || !proof.Bs.IsInSubGroup() {
		return false
	}
	return true
}
