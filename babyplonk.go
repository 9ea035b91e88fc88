// Package babyplonk produces Baby-Plonk proofs: PLONK arguments whose
// circuit constraints span pairs of adjacent rows over two wire columns.
//
// The prover consumes a proving key (zkey) and a witness (wtns) container
// and emits a succinct proof plus the circuit's public inputs. The heavy
// lifting lives in the subpackages: curve engines over gnark-crypto,
// the evaluation domain and transforms in fft, coefficient-form polynomials
// in polynomial, the Keccak-256 transcript in fiatshamir, the container
// codecs in zkey and witness, and the round logic in prover.
package babyplonk

import (
	"fmt"
	"os"

	"github.com/consensys/babyplonk/prover"
)

// Prove reads the proving key and witness files and runs the prover.
func Prove(zkeyPath, wtnsPath string, opts ...prover.Option) (*prover.Proof, []string, error) {
	zk, err := os.Open(zkeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening proving key: %w", err)
	}
	defer zk.Close()

	wtns, err := os.Open(wtnsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening witness: %w", err)
	}
	defer wtns.Close()

	return prover.Prove(zk, wtns, opts...)
}
