package prover

import (
	"crypto/rand"
	"fmt"
	"io"
	"runtime"
)

// Option alters the behavior of the prover in Prove. See the descriptions
// of functions returning instances of this type for implemented options.
type Option func(*Config) error

// Config is the prover configuration with the options applied.
type Config struct {
	// BlindingSource supplies the randomness for the blinding factors
	// b1..b8. Defaults to crypto/rand.
	BlindingSource io.Reader

	// NbTasks is the parallelism used for the per-index loops. The
	// multi-exponentiations do not use it; the engines run them on
	// runtime.NumCPU() tasks.
	NbTasks int
}

// NewConfig returns a default Config with the given options applied.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{
		BlindingSource: rand.Reader,
		NbTasks:        runtime.NumCPU(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// WithBlindingSource sets the randomness source for the blinding factors.
// A deterministic source makes the proof reproducible.
func WithBlindingSource(r io.Reader) Option {
	return func(cfg *Config) error {
		if r == nil {
			return fmt.Errorf("prover: nil blinding source")
		}
		cfg.BlindingSource = r
		return nil
	}
}

// WithNbTasks sets the number of parallel tasks used by the prover's
// per-index loops.
func WithNbTasks(n int) Option {
	return func(cfg *Config) error {
		if n < 1 {
			return fmt.Errorf("prover: nbTasks must be >= 1, got %d", n)
		}
		cfg.NbTasks = n
		return nil
	}
}
