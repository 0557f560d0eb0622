// gnarklet is a CLI around the proof engine; its demo command runs the full
// setup, prove and verify cycle on the cubic example circuit.
package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnarklet"
	"github.com/consensys/gnarklet/cs"
	"github.com/consensys/gnarklet/examples/cubic"
	"github.com/consensys/gnarklet/groth16"
	"github.com/consensys/gnarklet/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "gnarklet",
	Short:   "gnarklet builds rank-1 constraint systems and runs Groth16 on them",
	Version: gnarklet.Version,
}

var (
	fX     uint64
	fCount uint
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "proves knowledge of x such that x**3 + x + 5 = y and verifies the proof",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().Uint64Var(&fX, "x", 3, "witness value")
	demoCmd.Flags().UintVar(&fCount, "count", 1, "number of prover runs")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	var circuit cubic.Circuit
	circuit.X.SetUint64(fX)
	circuit.Y.SetUint64(fX*fX*fX + fX + 5)

	sys, err := cs.Build(&circuit)
	if err != nil {
		return err
	}
	m, err := sys.ToMatrices()
	if err != nil {
		return err
	}
	z, err := sys.Vector()
	if err != nil {
		return err
	}
	log.Info().
		Int("nbConstraints", m.NbConstraints).
		Int("nbWires", m.NbWires).
		Msg("circuit compiled")

	start := time.Now()
	pk, vk, err := groth16.Setup(m, rand.Reader)
	if err != nil {
		return err
	}
	log.Info().Dur("took", time.Since(start)).Msg("setup")

	publicInputs := []fr.Element{z[1]}
	for i := uint(0); i < fCount; i++ {
		start = time.Now()
		proof, err := groth16.Prove(m, pk, z, rand.Reader)
		if err != nil {
			return err
		}
		log.Info().Dur("took", time.Since(start)).Msg("prove")

		start = time.Now()
		ok, err := groth16.Verify(proof, vk, publicInputs)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("proof did not verify")
		}
		log.Info().Dur("took", time.Since(start)).Msg("verify")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
